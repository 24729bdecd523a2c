package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Raphi52/OnlyVIP-sub000/common/llm"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

const maxPersonalNoteRunes = 500

type NoteResponse struct {
	Note string `json:"note" jsonschema_description:"Updated personal note about the fan, under 500 characters"`
}

var noteSchema = llm.GenerateSchema[NoteResponse]()

// NoteUpdater keeps a short running note per fan for human chatters and
// the prompt.
type NoteUpdater struct {
	llm      llm.Client
	messages store.MessageStore
	fans     store.FanStore
}

func NewNoteUpdater(client llm.Client, messages store.MessageStore, fans store.FanStore) *NoteUpdater {
	return &NoteUpdater{llm: client, messages: messages, fans: fans}
}

func (u *NoteUpdater) Update(ctx context.Context, task FanTask) error {
	msg, err := u.messages.GetByID(ctx, task.MessageID)
	if err != nil {
		return fmt.Errorf("loading message: %w", err)
	}
	stats, err := u.fans.GetStats(ctx, task.CreatorSlug, task.FanID)
	if err != nil {
		return fmt.Errorf("loading fan stats: %w", err)
	}

	previous := ""
	if stats.PersonalNote != nil {
		previous = *stats.PersonalNote
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Current note\n%s\n\n## New message from %s\n%s\n", orNone(previous), stats.Name(), msg.Text)

	var response NoteResponse
	if err := chatWithRetry(ctx, u.llm, llm.Request{
		SystemPrompt: noteSystemPrompt,
		UserPrompt:   sb.String(),
		SchemaName:   "personal_note_response",
		Schema:       noteSchema,
		Temperature:  llm.Temp(0.2),
	}, &response, "personal note update"); err != nil {
		return err
	}

	note := truncateRunes(strings.TrimSpace(response.Note), maxPersonalNoteRunes)
	if note == "" || note == previous {
		return nil
	}
	if err := u.fans.UpdateNote(ctx, task.CreatorSlug, task.FanID, note); err != nil {
		return fmt.Errorf("saving personal note: %w", err)
	}

	slog.DebugContext(ctx, "personal note updated", "note_length", len([]rune(note)))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

const noteSystemPrompt = `You maintain a private note about a fan for the creator's chat team.

Merge the current note with anything new and useful from the fan's latest message: who they are, what they like, what they bought or asked for, how to talk to them.
Drop outdated details. Write plain English, no lists, under 500 characters.
If the message adds nothing, return the current note unchanged.`

package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/common/llm"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

const (
	maxHistoryTurns = 20
	maxMemoryFacts  = 10
)

type GenerateInput struct {
	Creator         *model.Creator
	Personality     *model.Personality
	FanName         string
	History         []model.Message // oldest first, ends with the fan message
	Media           *model.MediaDecision
	FanMemories     []model.FanMemory
	PersonalNote    *string
	IsAIOnlyFan     bool
	ScriptReference string
	ObjectionHint   string
	Language        string
	DeepCharacter   bool
}

// Generator wraps the language model behind the response pipeline. A
// creator with their own API key gets a client built from their settings.
type Generator struct {
	client    llm.TextClient
	newClient func(ctx context.Context, cfg llm.Config) (llm.TextClient, error)
	maxTokens int
}

func NewGenerator(client llm.TextClient, maxTokens int) *Generator {
	return &Generator{
		client:    client,
		newClient: llm.NewTextClient,
		maxTokens: maxTokens,
	}
}

// Generate returns the reply text, or "" when the model produced nothing.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (string, error) {
	client, err := g.clientFor(ctx, in.Creator)
	if err != nil {
		return "", err
	}
	if client == nil {
		return "", fmt.Errorf("no language model configured")
	}

	start := time.Now()
	resp, err := client.Generate(ctx, llm.TextRequest{
		SystemPrompt: BuildSystemPrompt(in),
		Messages:     BuildConversation(in.History),
		MaxTokens:    g.maxTokens,
		Temperature:  llm.Temp(0.9),
	})
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}

	text := strings.TrimSpace(resp.Content)
	slog.InfoContext(ctx, "reply generated",
		"model", client.Model(),
		"finish_reason", resp.FinishReason,
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens,
		"latency_ms", time.Since(start).Milliseconds(),
		"empty", text == "")
	return text, nil
}

func (g *Generator) clientFor(ctx context.Context, creator *model.Creator) (llm.TextClient, error) {
	if creator == nil || !creator.UsesCustomKey() {
		return g.client, nil
	}
	cfg := llm.Config{APIKey: *creator.AIAPIKey, MaxTokens: g.maxTokens}
	if creator.AIProvider != nil {
		cfg.Provider = *creator.AIProvider
	}
	if creator.AIModel != nil {
		cfg.Model = *creator.AIModel
	}
	client, err := g.newClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating creator LLM client: %w", err)
	}
	return client, nil
}

// BuildConversation maps the history to chat turns: fan messages are the
// user, everything the creator side sent is the assistant.
func BuildConversation(history []model.Message) []llm.Message {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			if len(m.Media) == 0 {
				continue
			}
			text = fmt.Sprintf("[sent %d media]", len(m.Media))
		}
		role := "assistant"
		if m.FromFan {
			role = "user"
		}
		out = append(out, llm.Message{Role: role, Content: text})
	}
	return out
}

func BuildSystemPrompt(in GenerateInput) string {
	var sb strings.Builder

	p := in.Personality
	creatorName := "the creator"
	if in.Creator != nil && in.Creator.DisplayName != "" {
		creatorName = in.Creator.DisplayName
	}

	fmt.Fprintf(&sb, "You are %s, chatting privately with a fan on your subscription page.\n", creatorName)
	if p != nil {
		fmt.Fprintf(&sb, "\n## Personality: %s\n%s\n", p.Name, p.Description)
		if p.Tone != "" || len(p.Traits.ToneTags) > 0 {
			fmt.Fprintf(&sb, "Tone: %s\n", strings.Join(appendUnique([]string{p.Tone}, p.Traits.ToneTags...), ", "))
		}
		if p.Traits.StyleNotes != "" {
			fmt.Fprintf(&sb, "Style: %s\n", p.Traits.StyleNotes)
		}
		sb.WriteString(emojiGuidance(p.Traits.EmojiLevel))
	}

	fmt.Fprintf(&sb, "\nReply in %s. Keep it short, like a real chat message (1-3 sentences).\n", languageName(in.Language))
	sb.WriteString("Never reveal you are an AI. Never send an empty message.\n")
	if in.DeepCharacter {
		sb.WriteString("Stay fully in character, remember details the fan shared and bring them up naturally.\n")
	}

	if in.FanName != "" {
		fmt.Fprintf(&sb, "\n## Fan\nName: %s\n", in.FanName)
		if in.IsAIOnlyFan {
			sb.WriteString("This fan only ever talks to you here, be attentive and consistent.\n")
		}
	}
	if in.PersonalNote != nil && *in.PersonalNote != "" {
		fmt.Fprintf(&sb, "Notes about the fan: %s\n", *in.PersonalNote)
	}
	if len(in.FanMemories) > 0 {
		sb.WriteString("\n## What you remember about the fan\n")
		for i, m := range in.FanMemories {
			if i == maxMemoryFacts {
				break
			}
			fmt.Fprintf(&sb, "- [%s] %s\n", m.Category, m.Content)
		}
	}

	if in.Media != nil {
		switch {
		case in.Media.IsPPV():
			fmt.Fprintf(&sb, "\n## Media\nYou are attaching a locked %s for %d credits. Make the fan want to unlock it without describing it explicitly.\n",
				in.Media.Media.Type, in.Media.Media.PPVPrice)
		case in.Media.ShouldSend && in.Media.Media != nil:
			fmt.Fprintf(&sb, "\n## Media\nYou are attaching a free %s as a gift. Mention it playfully.\n", in.Media.Media.Type)
		}
	}

	if in.ScriptReference != "" {
		fmt.Fprintf(&sb, "\n## Script reference\n%s\n", in.ScriptReference)
	}
	if in.ObjectionHint != "" {
		fmt.Fprintf(&sb, "\n## The fan is hesitating\n%s\n", in.ObjectionHint)
	}

	return sb.String()
}

func emojiGuidance(level int) string {
	switch {
	case level <= 0:
		return "Do not use emojis.\n"
	case level == 1:
		return "Use at most one emoji.\n"
	case level == 2:
		return "Use a couple of emojis.\n"
	default:
		return "Use emojis generously.\n"
	}
}

var languageNames = map[string]string{
	LanguageEnglish:    "English",
	LanguageFrench:     "French",
	LanguageSpanish:    "Spanish",
	LanguageGerman:     "German",
	LanguageItalian:    "Italian",
	LanguagePortuguese: "Portuguese",
}

func languageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return "English"
}

func appendUnique(base []string, more ...string) []string {
	seen := make(map[string]bool, len(base)+len(more))
	out := make([]string, 0, len(base)+len(more))
	for _, s := range append(base, more...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

package brain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

// ErrNoPersonality means the creator has no active personality at all.
var ErrNoPersonality = errors.New("no AI personality available")

// PersonalitySelector is the creator-level assignment policy for
// conversations without a personality.
type PersonalitySelector interface {
	Select(ctx context.Context, creatorSlug string, conv *model.Conversation) (*model.Personality, error)
}

// Router is the only writer of a conversation's personality assignment.
type Router struct {
	conversations store.ConversationStore
	personalities store.PersonalityStore
	selector      PersonalitySelector
	now           func() time.Time
}

func NewRouter(conversations store.ConversationStore, personalities store.PersonalityStore, selector PersonalitySelector, now func() time.Time) *Router {
	if now == nil {
		now = time.Now
	}
	return &Router{
		conversations: conversations,
		personalities: personalities,
		selector:      selector,
		now:           now,
	}
}

// Resolve returns the conversation's personality, assigning one when the
// conversation has none. conv.PersonalityID is updated in place.
func (r *Router) Resolve(ctx context.Context, conv *model.Conversation) (*model.Personality, error) {
	p, err := r.assigned(ctx, conv)
	if err != nil || p != nil {
		return p, err
	}

	p, err = r.selector.Select(ctx, conv.CreatorSlug, conv)
	if err != nil {
		return nil, fmt.Errorf("selecting personality: %w", err)
	}
	if p == nil {
		return nil, ErrNoPersonality
	}

	if err := r.switchTo(ctx, conv, p, model.PersonalitySwitch{Reason: model.SwitchReasonAutoAssign}); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "personality auto-assigned",
		"personality_id", p.ID,
		"personality_name", p.Name)
	return p, nil
}

// Current is Resolve without the assignment write. It returns nil when the
// creator has no active personality.
func (r *Router) Current(ctx context.Context, conv *model.Conversation) (*model.Personality, error) {
	p, err := r.assigned(ctx, conv)
	if err != nil || p != nil {
		return p, err
	}
	p, err = r.selector.Select(ctx, conv.CreatorSlug, conv)
	if err != nil {
		return nil, fmt.Errorf("selecting personality: %w", err)
	}
	return p, nil
}

func (r *Router) assigned(ctx context.Context, conv *model.Conversation) (*model.Personality, error) {
	if conv.PersonalityID == nil {
		return nil, nil
	}
	p, err := r.personalities.GetByID(ctx, *conv.PersonalityID)
	if err == nil && p.IsActive {
		return p, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading personality: %w", err)
	}
	slog.WarnContext(ctx, "assigned personality unavailable, reassigning",
		"personality_id", *conv.PersonalityID)
	return nil, nil
}

// Refresh runs the tone and language auto-switches and returns the
// personality to use for this message. history is oldest first.
func (r *Router) Refresh(ctx context.Context, conv *model.Conversation, current *model.Personality, history []model.Message) (*model.Personality, error) {
	if !conv.AutoToneSwitch && !conv.AutoLanguageSwitch {
		return current, nil
	}

	candidates, err := r.personalities.ListActiveByCreator(ctx, conv.CreatorSlug)
	if err != nil {
		return nil, fmt.Errorf("listing personalities: %w", err)
	}

	var fanTexts, allTexts []string
	for _, m := range history {
		allTexts = append(allTexts, m.Text)
		if m.FromFan {
			fanTexts = append(fanTexts, m.Text)
		}
	}

	if conv.AutoToneSwitch {
		if tone := DetectTone(allTexts); tone != "" && !current.HasTone(tone) {
			if next := pickByTone(candidates, tone, current); next != nil {
				prev := current.Name
				if err := r.switchTo(ctx, conv, next, model.PersonalitySwitch{
					Reason:                  model.SwitchReasonAutoTone,
					PreviousPersonalityName: &prev,
					DetectedTone:            &tone,
				}); err != nil {
					return nil, err
				}
				slog.InfoContext(ctx, "personality switched on tone",
					"tone", tone,
					"from", prev,
					"to", next.Name)
				current = next
			}
		}
	}

	if conv.AutoLanguageSwitch {
		if lang := DetectLanguage(fanTexts); lang != "" && !strings.EqualFold(lang, current.Language) {
			if next := pickByLanguage(candidates, lang, current); next != nil {
				prev := current.Name
				if err := r.switchTo(ctx, conv, next, model.PersonalitySwitch{
					Reason:                  model.SwitchReasonAutoLanguage,
					PreviousPersonalityName: &prev,
					DetectedLanguage:        &lang,
				}); err != nil {
					return nil, err
				}
				slog.InfoContext(ctx, "personality switched on language",
					"language", lang,
					"from", prev,
					"to", next.Name)
				current = next
			}
		}
	}

	return current, nil
}

func (r *Router) switchTo(ctx context.Context, conv *model.Conversation, p *model.Personality, sw model.PersonalitySwitch) error {
	sw.ConversationID = conv.ID
	sw.PersonalityID = p.ID
	sw.SwitchedAt = r.now()
	if err := r.conversations.SwitchPersonality(ctx, sw); err != nil {
		return fmt.Errorf("switching personality: %w", err)
	}
	id := p.ID
	conv.PersonalityID = &id
	return nil
}

// pickByTone prefers a personality with the tone that also speaks the
// current language.
func pickByTone(candidates []model.Personality, tone string, current *model.Personality) *model.Personality {
	var fallback *model.Personality
	for i := range candidates {
		c := &candidates[i]
		if c.ID == current.ID || !c.HasTone(tone) {
			continue
		}
		if strings.EqualFold(c.Language, current.Language) {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

// pickByLanguage prefers a personality in the language that keeps the
// current tone.
func pickByLanguage(candidates []model.Personality, lang string, current *model.Personality) *model.Personality {
	var fallback *model.Personality
	for i := range candidates {
		c := &candidates[i]
		if c.ID == current.ID || !strings.EqualFold(c.Language, lang) {
			continue
		}
		if current.Tone != "" && c.HasTone(current.Tone) {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

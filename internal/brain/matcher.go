package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

type Strategy string

const (
	StrategyScriptOnly     Strategy = "SCRIPT_ONLY"
	StrategyAIPersonalized Strategy = "AI_PERSONALIZED_SCRIPT"
	StrategyAIWithHints    Strategy = "AI_WITH_HINTS"
)

const (
	scriptIntentBonus   = 0.4
	scriptCategoryBonus = 0.2
	scriptKeywordBonus  = 0.15
	scriptPatternBonus  = 0.25

	ScriptOnlyThreshold     = 0.8
	PersonalizedThreshold   = 0.5
	VerbatimScriptThreshold = 0.85
)

// MatchContext is everything the matcher knows about the inbound message.
type MatchContext struct {
	Message     string
	CreatorSlug string
	AgencyID    *int64
	FanStage    *string
	Language    string
	History     []model.Message
	Variables   VariableContext
}

// MatchedScript is the matcher's transient output.
type MatchedScript struct {
	Script     model.Script
	Score      float64
	Confidence float64
	Reason     string // intent, category, keyword or pattern
	Intent     IntentMatch
	Strategy   Strategy
	Content    string // template with variables substituted
}

func (m MatchedScript) NextOnSuccessID() *int64 { return m.Script.NextOnSuccessID }
func (m MatchedScript) NextOnRejectID() *int64  { return m.Script.NextOnRejectID }
func (m MatchedScript) SuggestedPrice() *int    { return m.Script.SuggestedPrice }

// Reference renders the hint handed to the generator when the script is not
// sent verbatim.
func (m MatchedScript) Reference() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Script %q (%s, confidence %.2f, strategy %s):\n%s",
		m.Script.Name, m.Script.Category, m.Confidence, m.Strategy, m.Content)
	if m.Script.PreserveCore != nil && *m.Script.PreserveCore != "" {
		fmt.Fprintf(&sb, "\nKeep this part intact: %s", *m.Script.PreserveCore)
	}
	if m.Script.SuggestedPrice != nil {
		fmt.Fprintf(&sb, "\nSuggested price: %d credits", *m.Script.SuggestedPrice)
	}
	switch m.Strategy {
	case StrategyAIPersonalized:
		sb.WriteString("\nRewrite it in your own voice but keep its meaning and offer.")
	case StrategyAIWithHints:
		sb.WriteString("\nUse it only as inspiration.")
	case StrategyScriptOnly:
		sb.WriteString("\nTranslate it faithfully without changing the content.")
	}
	return sb.String()
}

type ScriptMatcher struct {
	scripts store.ScriptStore
	intents *IntentDetector
}

func NewScriptMatcher(scripts store.ScriptStore, intents *IntentDetector) *ScriptMatcher {
	return &ScriptMatcher{scripts: scripts, intents: intents}
}

// Match returns the best script for the message, or nil. It has no side
// effects; usage is tracked separately by the Attributor.
func (m *ScriptMatcher) Match(ctx context.Context, mc MatchContext) (*MatchedScript, error) {
	intent := m.intents.Detect(mc.Message)

	q := model.ScriptQuery{
		AgencyID:    mc.AgencyID,
		CreatorSlug: mc.CreatorSlug,
		FanStage:    mc.FanStage,
	}
	if intent.Detected() {
		q.Intent = &intent.Intent
		q.Category = &intent.Category
	}

	candidates, err := m.scripts.ListCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing candidate scripts: %w", err)
	}

	normalized := normalize(mc.Message)
	tokens := tokenize(normalized)

	var best *MatchedScript
	for _, script := range candidates {
		score, reason := scoreScript(script, intent, normalized, tokens)
		if score < script.EffectiveMinConfidence() {
			continue
		}
		if best == nil || score > best.Score {
			best = &MatchedScript{Script: script, Score: score, Reason: reason, Intent: intent}
		}
	}
	if best == nil {
		slog.DebugContext(ctx, "no script matched",
			"intent", intent.Intent,
			"candidate_count", len(candidates))
		return nil, nil
	}

	best.Confidence = clamp01(best.Score)
	best.Strategy = SelectStrategy(best.Confidence, best.Script.AllowAIModify)

	vc := mc.Variables
	if vc.Now.IsZero() {
		vc.Now = time.Now()
	}
	best.Content = ParseVariables(best.Script.Content, vc)

	slog.DebugContext(ctx, "script matched",
		"script_id", best.Script.ID,
		"confidence", best.Confidence,
		"reason", best.Reason,
		"strategy", best.Strategy)

	return best, nil
}

func scoreScript(s model.Script, intent IntentMatch, normalized string, tokens []string) (float64, string) {
	score := float64(s.Priority) / 100
	reason := ""

	if intent.Detected() {
		switch {
		case s.Intent != nil && *s.Intent == intent.Intent:
			score += scriptIntentBonus
			reason = "intent"
		case intent.Category != "" && strings.HasPrefix(s.Category, intent.Category):
			score += scriptCategoryBonus
			reason = "category"
		}
	}

	if hits := matchKeywords(normalized, tokens, s.TriggerKeywords); len(hits) > 0 {
		score += scriptKeywordBonus * float64(len(hits))
		if reason == "category" {
			reason = "keyword"
		}
	}

	for _, p := range s.TriggerPatterns {
		re := compilePattern(p)
		if re != nil && re.MatchString(normalized) {
			score += scriptPatternBonus
			reason = "pattern"
		}
	}

	score += s.ConversionRate/200 + s.SuccessScore/200
	return score, reason
}

// SelectStrategy decides how rigidly a script must be kept.
func SelectStrategy(confidence float64, allowAIModify bool) Strategy {
	switch {
	case confidence >= ScriptOnlyThreshold && !allowAIModify:
		return StrategyScriptOnly
	case confidence >= PersonalizedThreshold && allowAIModify:
		return StrategyAIPersonalized
	default:
		return StrategyAIWithHints
	}
}

// UseVerbatim reports whether the script text can be sent as is.
func (m MatchedScript) UseVerbatim(language string) bool {
	return m.Strategy == StrategyScriptOnly &&
		isEnglish(language) &&
		m.Confidence >= VerbatimScriptThreshold
}

func isEnglish(language string) bool {
	return language == "" || strings.EqualFold(language, LanguageEnglish)
}

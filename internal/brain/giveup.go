package brain

import "github.com/Raphi52/OnlyVIP-sub000/internal/model"

// MinimalResponseRate is the share of messages still answered under the
// "minimal" give-up action.
const MinimalResponseRate = 0.2

// GiveUp reports whether automation should stop answering a fan who never
// paid. It returns the termination reason when it does.
func GiveUp(p *model.Personality, stats *model.FanStats, rnd Rand) (bool, string) {
	if p == nil || stats == nil || !p.GiveUp.Enabled {
		return false, ""
	}
	if stats.TotalSpent > 0 || stats.TotalMessages < p.GiveUp.MessageThreshold {
		return false, ""
	}

	switch p.GiveUp.Action {
	case model.GiveUpActionMinimal:
		if rnd.Float64() < MinimalResponseRate {
			return false, ""
		}
		return true, "Non-paying fan: minimal engagement, skipped this message"
	default:
		return true, "Non-paying fan: automation stopped"
	}
}

package brain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var variableToken = regexp.MustCompile(`\{\{\s*([a-zA-Z_]+)\s*\}\}`)

// RandomEmojis and PetNames are the finite sets {{randomEmoji}} and
// {{petName}} draw from.
var (
	RandomEmojis = []string{"😘", "😏", "🥰", "😈", "💋", "🔥", "😍", "💕"}
	PetNames     = []string{"babe", "baby", "handsome", "sweetie", "honey", "love", "darling"}
)

// VariableContext carries the values a script template can reference. Fan,
// creator and pricing fields are optional; their tokens stay in the text
// when unset. Temporal and flourish tokens always resolve.
type VariableContext struct {
	FanName           *string
	Username          *string
	Credits           *int
	JoinedAt          *time.Time
	LastActiveAt      *time.Time
	CreatorName       *string
	PPVPrice          *int
	SubscriptionPrice *int
	TipPrice          *int

	Now  time.Time
	Rand Rand
}

// ParseVariables substitutes {{name}} tokens in template.
func ParseVariables(template string, vc VariableContext) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	now := vc.Now
	if now.IsZero() {
		now = time.Now()
	}
	rnd := vc.Rand
	if rnd == nil {
		rnd = NewRand()
	}

	return variableToken.ReplaceAllStringFunc(template, func(token string) string {
		name := strings.ToLower(variableToken.FindStringSubmatch(token)[1])
		if value, ok := resolveVariable(name, vc, now, rnd); ok {
			return value
		}
		return token
	})
}

func resolveVariable(name string, vc VariableContext, now time.Time, rnd Rand) (string, bool) {
	switch name {
	case "fanname", "fan_name", "name":
		return deref(vc.FanName)
	case "username":
		return deref(vc.Username)
	case "credits":
		return derefInt(vc.Credits)
	case "dayssincejoin", "days_since_join":
		if vc.JoinedAt == nil {
			return "", false
		}
		return strconv.Itoa(int(now.Sub(*vc.JoinedAt).Hours() / 24)), true
	case "lastactive", "last_active":
		if vc.LastActiveAt == nil {
			return "", false
		}
		return humanizeSince(now.Sub(*vc.LastActiveAt)), true
	case "creatorname", "creator_name":
		return deref(vc.CreatorName)
	case "ppvprice", "ppv_price", "price":
		return derefInt(vc.PPVPrice)
	case "subscriptionprice", "subscription_price":
		return derefInt(vc.SubscriptionPrice)
	case "tipprice", "tip_price":
		return derefInt(vc.TipPrice)
	case "timeofday", "time_of_day":
		return timeOfDay(now), true
	case "dayofweek", "day_of_week":
		return now.Weekday().String(), true
	case "greeting":
		return greeting(now), true
	case "randomemoji", "random_emoji", "emoji":
		return pick(rnd, RandomEmojis), true
	case "petname", "pet_name":
		return pick(rnd, PetNames), true
	}
	return "", false
}

func deref(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

func derefInt(i *int) (string, bool) {
	if i == nil {
		return "", false
	}
	return strconv.Itoa(*i), true
}

func timeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 22:
		return "evening"
	default:
		return "night"
	}
}

func greeting(t time.Time) string {
	switch timeOfDay(t) {
	case "morning":
		return "Good morning"
	case "afternoon":
		return "Good afternoon"
	case "evening":
		return "Good evening"
	default:
		return "Hey night owl"
	}
}

func humanizeSince(d time.Duration) string {
	switch {
	case d < time.Hour:
		return "just now"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}

package brain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/common/id"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

type ObjectionType string

const (
	ObjectionPrice         ObjectionType = "price"
	ObjectionTrust         ObjectionType = "trust"
	ObjectionTiming        ObjectionType = "timing"
	ObjectionNotInterested ObjectionType = "not_interested"
)

var objectionTypes = map[string]ObjectionType{
	IntentPriceObjection:  ObjectionPrice,
	IntentTrustObjection:  ObjectionTrust,
	IntentTimingObjection: ObjectionTiming,
	IntentNotInterested:   ObjectionNotInterested,
}

// ObjectionResolver handles the objections that get no scripted discount.
// It returns guidance for the generator, or "".
type ObjectionResolver interface {
	Resolve(ctx context.Context, kind ObjectionType, message, language string) (string, error)
}

var discountPhrases = map[string][]string{
	LanguageEnglish: {
		"Okay, just for you 😘 I lowered the price",
		"Fine, you convinced me... special price just for you 💕",
		"Because it's you, I'll make you a little discount 😏",
		"Alright babe, I made it cheaper just for you 🔥",
	},
	LanguageFrench: {
		"Bon d'accord, juste pour toi 😘 j'ai baissé le prix",
		"Tu m'as convaincue... prix spécial rien que pour toi 💕",
		"Parce que c'est toi, je te fais une petite réduction 😏",
	},
	LanguageSpanish: {
		"Vale, solo para ti 😘 te bajé el precio",
		"Me convenciste... precio especial solo para ti 💕",
		"Porque eres tú, te hago un pequeño descuento 😏",
	},
	LanguageGerman: {
		"Okay, nur für dich 😘 ich habe den Preis gesenkt",
		"Du hast mich überzeugt... Sonderpreis nur für dich 💕",
		"Weil du es bist, bekommst du einen kleinen Rabatt 😏",
	},
	LanguageItalian: {
		"Va bene, solo per te 😘 ho abbassato il prezzo",
		"Mi hai convinta... prezzo speciale solo per te 💕",
		"Visto che sei tu, ti faccio un piccolo sconto 😏",
	},
	LanguagePortuguese: {
		"Tá bom, só pra você 😘 baixei o preço",
		"Você me convenceu... preço especial só pra você 💕",
		"Porque é você, vou te dar um descontinho 😏",
	},
}

// DiscountPhrases returns the canned replies for language, falling back to English.
func DiscountPhrases(language string) []string {
	if phrases, ok := discountPhrases[language]; ok {
		return phrases
	}
	return discountPhrases[LanguageEnglish]
}

// DiscountedPrice applies the fixed 20% objection discount, rounding down.
func DiscountedPrice(price int) int {
	if price <= 0 {
		return price
	}
	return price * 4 / 5
}

type ObjectionInput struct {
	ConversationID int64
	MessageID      int64
	Message        string
	Language       string
	Decision       *model.MediaDecision
}

// ObjectionResult is set when an objection was detected. Text is only filled
// by the price fast path; Hint by the resolver path.
type ObjectionResult struct {
	Type            ObjectionType
	Pattern         string
	Text            string
	Hint            string
	OriginalPrice   *int
	DiscountedPrice *int
}

func (r *ObjectionResult) Handled() bool {
	return r != nil && r.Text != ""
}

type ObjectionHandler struct {
	detector   *IntentDetector
	objections store.ObjectionStore
	resolver   ObjectionResolver
	rand       Rand
	now        func() time.Time
}

func NewObjectionHandler(objections store.ObjectionStore, resolver ObjectionResolver, rnd Rand, now func() time.Time) *ObjectionHandler {
	if now == nil {
		now = time.Now
	}
	return &ObjectionHandler{
		detector:   NewIntentDetector(ObjectionIntents()),
		objections: objections,
		resolver:   resolver,
		rand:       rnd,
		now:        now,
	}
}

// Handle returns nil when the message carries no objection. A price
// objection against a pending PPV offer gets a discounted price and a canned
// reply; every other objection is delegated to the resolver.
func (h *ObjectionHandler) Handle(ctx context.Context, in ObjectionInput) (*ObjectionResult, error) {
	match := h.detector.Detect(in.Message)
	if !match.Detected() {
		return nil, nil
	}

	kind := objectionTypes[match.Intent]
	pattern := match.MatchedPattern
	if pattern == "" && len(match.MatchedKeywords) > 0 {
		pattern = match.MatchedKeywords[0]
	}
	result := &ObjectionResult{Type: kind, Pattern: pattern}

	if kind == ObjectionPrice && in.Decision != nil && in.Decision.IsPPV() {
		original := in.Decision.Media.PPVPrice
		discounted := DiscountedPrice(original)
		result.OriginalPrice = &original
		result.DiscountedPrice = &discounted
		result.Text = pick(h.rand, DiscountPhrases(in.Language))

		if err := h.objections.Create(ctx, &model.ObjectionLog{
			ID:              id.New(),
			ConversationID:  in.ConversationID,
			MessageID:       in.MessageID,
			ObjectionType:   string(kind),
			Pattern:         pattern,
			Language:        in.Language,
			OriginalPrice:   &original,
			DiscountedPrice: &discounted,
			CreatedAt:       h.now(),
		}); err != nil {
			return nil, fmt.Errorf("recording objection: %w", err)
		}

		slog.InfoContext(ctx, "price objection discounted",
			"pattern", pattern,
			"original_price", original,
			"discounted_price", discounted)
		return result, nil
	}

	if h.resolver == nil {
		return result, nil
	}
	hint, err := h.resolver.Resolve(ctx, kind, in.Message, in.Language)
	if err != nil {
		return nil, fmt.Errorf("resolving %s objection: %w", kind, err)
	}
	result.Hint = hint
	return result, nil
}

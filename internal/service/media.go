package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

// askedMediaBoost is added to the persona's frequency when the fan asked for
// content or wants to buy.
const askedMediaBoost = 0.5

var teaseTexts = []string{
	"I just took some pics you'd love... want to see? 😏",
	"I have something special for you, but you'll have to ask nicely 😘",
	"Guess what I'm wearing right now 🙈",
	"I made something naughty earlier... curious? 🔥",
}

type MediaRequest struct {
	CreatorSlug    string
	CreatorUserID  int64
	ConversationID int64
	MessageText    string
	Settings       model.MediaSettings
	Personality    *model.Personality
}

// MediaEngine decides whether the next reply carries an attachment.
type MediaEngine interface {
	Decide(ctx context.Context, req MediaRequest) (model.MediaDecision, error)
}

type mediaEngine struct {
	media   store.MediaStore
	intents *brain.IntentDetector
	rnd     brain.Rand
}

func NewMediaEngine(media store.MediaStore, intents *brain.IntentDetector, rnd brain.Rand) MediaEngine {
	if rnd == nil {
		rnd = brain.NewRand()
	}
	return &mediaEngine{media: media, intents: intents, rnd: rnd}
}

func (e *mediaEngine) Decide(ctx context.Context, req MediaRequest) (model.MediaDecision, error) {
	none := model.MediaDecision{Type: model.MediaDecisionNone}

	asked := false
	switch e.intents.Detect(req.MessageText).Intent {
	case brain.IntentContentRequest, brain.IntentPurchaseIntent:
		asked = true
	}

	chance := req.Settings.Frequency
	if asked {
		chance += askedMediaBoost
	}
	if chance <= 0 || e.rnd.Float64() >= chance {
		return none, nil
	}

	items, err := e.media.ListUnsent(ctx, req.CreatorSlug, req.ConversationID)
	if err != nil {
		return none, fmt.Errorf("listing unsent media: %w", err)
	}
	if len(items) == 0 {
		slog.DebugContext(ctx, "no unsent media left for conversation")
		return none, nil
	}

	item := items[e.rnd.Intn(len(items))]
	ppv := !item.IsFree && item.PPVPrice > 0 && e.rnd.Float64() < req.Settings.PPVRatio

	if ppv && req.Settings.Teasing && !asked {
		tease := teaseTexts[e.rnd.Intn(len(teaseTexts))]
		return model.MediaDecision{Type: model.MediaDecisionTease, TeaseText: &tease}, nil
	}

	decision := model.MediaDecision{ShouldSend: true, Type: model.MediaDecisionFree, Media: &item}
	if ppv {
		decision.Type = model.MediaDecisionPPV
	}
	return decision, nil
}

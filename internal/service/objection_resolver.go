package service

import (
	"context"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
)

var objectionHints = map[brain.ObjectionType]string{
	brain.ObjectionPrice: "The fan thinks it's too expensive. Don't lower the price yourself; " +
		"make them feel the content is worth it and keep it light.",
	brain.ObjectionTrust: "The fan doubts you are real or that the content is worth it. Be warm and personal, " +
		"mention something specific from your chat, never get defensive.",
	brain.ObjectionTiming: "The fan says it's not a good moment. Don't push; tell them you'll be here " +
		"and leave them curious for later.",
	brain.ObjectionNotInterested: "The fan isn't interested right now. Drop the sale, change the subject " +
		"and just enjoy the conversation.",
}

type objectionResolver struct{}

// NewObjectionResolver returns fixed guidance per objection kind.
func NewObjectionResolver() brain.ObjectionResolver {
	return objectionResolver{}
}

func (objectionResolver) Resolve(_ context.Context, kind brain.ObjectionType, _, _ string) (string, error) {
	return objectionHints[kind], nil
}

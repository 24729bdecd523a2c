package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

const (
	EventMessageCreated = "message.created"
	EventTyping         = "typing"
	EventMessagesRead   = "messages.read"
)

// RealtimeEvent is the JSON payload published on a conversation channel.
type RealtimeEvent struct {
	Type           string           `json:"type"`
	ConversationID int64            `json:"conversationId"`
	Message        *RealtimeMessage `json:"message,omitempty"`
	UserID         *int64           `json:"userId,omitempty"`
	IsTyping       *bool            `json:"isTyping,omitempty"`
	ReadCount      *int64           `json:"readCount,omitempty"`
	SentAt         time.Time        `json:"sentAt"`
}

type RealtimeMessage struct {
	ID         int64                `json:"id"`
	Text       string               `json:"text"`
	SenderID   int64                `json:"senderId"`
	ReceiverID int64                `json:"receiverId"`
	IsPPV      bool                 `json:"isPPV"`
	PPVPrice   *int                 `json:"ppvPrice,omitempty"`
	Media      []model.MessageMedia `json:"media"`
	CreatedAt  time.Time            `json:"createdAt"`
}

type Notifier interface {
	MessageCreated(ctx context.Context, msg *model.Message) error
	Typing(ctx context.Context, conversationID, userID int64, typing bool) error
	MessagesRead(ctx context.Context, conversationID int64, count int64) error
}

type redisNotifier struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisNotifier publishes to "<prefix>:<conversationID>".
func NewRedisNotifier(client *redis.Client, prefix string) Notifier {
	return &redisNotifier{client: client, prefix: prefix, now: time.Now}
}

func (n *redisNotifier) Channel(conversationID int64) string {
	return fmt.Sprintf("%s:%d", n.prefix, conversationID)
}

func (n *redisNotifier) MessageCreated(ctx context.Context, msg *model.Message) error {
	media := msg.Media
	if media == nil {
		media = []model.MessageMedia{}
	}
	return n.publish(ctx, RealtimeEvent{
		Type:           EventMessageCreated,
		ConversationID: msg.ConversationID,
		Message: &RealtimeMessage{
			ID:         msg.ID,
			Text:       msg.Text,
			SenderID:   msg.SenderID,
			ReceiverID: msg.ReceiverID,
			IsPPV:      msg.IsPPV,
			PPVPrice:   msg.PPVPrice,
			Media:      media,
			CreatedAt:  msg.CreatedAt,
		},
	})
}

func (n *redisNotifier) Typing(ctx context.Context, conversationID, userID int64, typing bool) error {
	return n.publish(ctx, RealtimeEvent{
		Type:           EventTyping,
		ConversationID: conversationID,
		UserID:         &userID,
		IsTyping:       &typing,
	})
}

func (n *redisNotifier) MessagesRead(ctx context.Context, conversationID int64, count int64) error {
	return n.publish(ctx, RealtimeEvent{
		Type:           EventMessagesRead,
		ConversationID: conversationID,
		ReadCount:      &count,
	})
}

func (n *redisNotifier) publish(ctx context.Context, event RealtimeEvent) error {
	event.SentAt = n.now().UTC()
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", event.Type, err)
	}
	if err := n.client.Publish(ctx, n.Channel(event.ConversationID), payload).Err(); err != nil {
		return fmt.Errorf("publishing %s event: %w", event.Type, err)
	}
	return nil
}

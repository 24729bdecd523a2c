package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/common/id"
	"github.com/Raphi52/OnlyVIP-sub000/common/llm"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

// FanTask identifies the fan message a background task works on.
type FanTask struct {
	ConversationID int64
	MessageID      int64
	FanID          int64
	CreatorSlug    string
}

type MemoryResponse struct {
	Facts []MemoryFact `json:"facts" jsonschema_description:"Long-term facts about the fan, at most 5"`
}

type MemoryFact struct {
	Category   string  `json:"category" jsonschema:"enum=personal,enum=preference,enum=relationship,enum=work,enum=location,enum=interest" jsonschema_description:"Kind of fact"`
	Content    string  `json:"content" jsonschema_description:"The fact, one short sentence in English"`
	Confidence float64 `json:"confidence" jsonschema_description:"How sure the fact is stated, 0.0-1.0"`
}

var memorySchema = llm.GenerateSchema[MemoryResponse]()

const (
	maxMemoryFactsPerMessage = 5
	minMemoryConfidence      = 0.6
	llmAttempts              = 3
)

type MemoryExtractor struct {
	llm      llm.Client
	messages store.MessageStore
	memories store.FanMemoryStore
}

func NewMemoryExtractor(client llm.Client, messages store.MessageStore, memories store.FanMemoryStore) *MemoryExtractor {
	return &MemoryExtractor{llm: client, messages: messages, memories: memories}
}

// Extract stores the durable facts the fan revealed in the message.
func (e *MemoryExtractor) Extract(ctx context.Context, task FanTask) (int, error) {
	msg, err := e.messages.GetByID(ctx, task.MessageID)
	if err != nil {
		return 0, fmt.Errorf("loading message: %w", err)
	}
	text := strings.TrimSpace(msg.Text)
	if len([]rune(text)) < 8 {
		slog.DebugContext(ctx, "message too short for memory extraction", "message_id", task.MessageID)
		return 0, nil
	}

	var response MemoryResponse
	err = chatWithRetry(ctx, e.llm, llm.Request{
		SystemPrompt: memorySystemPrompt,
		UserPrompt:   text,
		SchemaName:   "fan_memory_response",
		Schema:       memorySchema,
		Temperature:  llm.Temp(0.1),
	}, &response, "memory extraction")
	if err != nil {
		return 0, err
	}

	stored := 0
	now := time.Now()
	for i, fact := range response.Facts {
		if i == maxMemoryFactsPerMessage {
			break
		}
		if fact.Confidence < minMemoryConfidence || strings.TrimSpace(fact.Content) == "" {
			continue
		}
		if err := e.memories.Create(ctx, &model.FanMemory{
			ID:              id.New(),
			FanID:           task.FanID,
			CreatorSlug:     task.CreatorSlug,
			Category:        fact.Category,
			Content:         strings.TrimSpace(fact.Content),
			Confidence:      fact.Confidence,
			SourceMessageID: task.MessageID,
			CreatedAt:       now,
		}); err != nil {
			return stored, fmt.Errorf("storing fan memory: %w", err)
		}
		stored++
	}

	slog.InfoContext(ctx, "fan memories extracted",
		"fact_count", len(response.Facts),
		"stored_count", stored)
	return stored, nil
}

// chatWithRetry retries transient LLM failures with exponential backoff
// (1s, 2s). Background tasks give up after three attempts and let the task
// queue decide about redelivery.
func chatWithRetry(ctx context.Context, client llm.Client, req llm.Request, result any, stage string) error {
	var err error
	for attempt := 0; attempt < llmAttempts; attempt++ {
		_, err = client.Chat(ctx, req, result)
		if err == nil {
			return nil
		}
		if !llm.IsRetryable(ctx, err) {
			return fmt.Errorf("%s: %w", stage, err)
		}
		if attempt == llmAttempts-1 {
			break
		}
		slog.WarnContext(ctx, stage+" retry",
			"attempt", attempt+1,
			"error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(1<<attempt) * time.Second):
		}
	}
	return fmt.Errorf("%s after %d attempts: %w", stage, llmAttempts, err)
}

const memorySystemPrompt = `You read one chat message a fan sent to a content creator and extract facts worth remembering long term.

Keep only durable facts: name, age, job, city, relationship status, hobbies, tastes, important dates, things they own.
Ignore greetings, flirting, requests for content, and anything about the current moment only.

Return at most 5 facts. Each fact is one short English sentence about the fan ("Works as a nurse", "Has a dog named Max").
Set confidence high only when the fan states the fact directly. Return an empty list when there is nothing to remember.`

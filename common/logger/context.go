package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Fields flow through context enrichment, so business context (queue_entry_id,
// conversation_id, etc.) is included in every log statement without passing it around.
type LogFields struct {
	QueueEntryID   *int64  // AI response queue entry ID
	ConversationID *int64  // Fan <-> creator conversation ID
	MessageID      *int64  // Inbound fan message that triggered the work
	CreatorSlug    *string // Creator the conversation belongs to
	TaskMessageID  *string // Redis stream message ID of a background task
	TaskType       *string // Background task type (e.g., "memory_extract")
	Component      string  // Component name (OTel semantic convention style, e.g., "ai.worker.processor")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

// mergeFields merges two LogFields, preferring non-nil/non-empty values from 'new'.
func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.QueueEntryID != nil {
		result.QueueEntryID = new.QueueEntryID
	}
	if new.ConversationID != nil {
		result.ConversationID = new.ConversationID
	}
	if new.MessageID != nil {
		result.MessageID = new.MessageID
	}
	if new.CreatorSlug != nil {
		result.CreatorSlug = new.CreatorSlug
	}
	if new.TaskMessageID != nil {
		result.TaskMessageID = new.TaskMessageID
	}
	if new.TaskType != nil {
		result.TaskType = new.TaskType
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{QueueEntryID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long strings like fan messages or model output.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

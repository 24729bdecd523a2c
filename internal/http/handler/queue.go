package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
	"github.com/Raphi52/OnlyVIP-sub000/internal/http/dto"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/worker"
)

// QueueProcessor is implemented by worker.Processor.
type QueueProcessor interface {
	ProcessBatch(ctx context.Context, now time.Time) (worker.BatchResult, error)
	EnqueueAndProcess(ctx context.Context, messageID, conversationID int64, creatorSlug string) (*model.QueueEntry, error)
}

type QueueHandler struct {
	processor   QueueProcessor
	traceHeader string
	now         func() time.Time
}

func NewQueueHandler(processor QueueProcessor, traceHeader string) *QueueHandler {
	return &QueueHandler{
		processor:   processor,
		traceHeader: traceHeader,
		now:         time.Now,
	}
}

// Process runs one batch of due entries. Called by the external scheduler.
func (h *QueueHandler) Process(c *gin.Context) {
	sc := startTrace(c, h.traceHeader, "http.queue.process")
	defer sc.End()
	ctx := logger.WithLogFields(sc.Context(), logger.LogFields{Component: "ai.http.queue"})

	result, err := h.processor.ProcessBatch(ctx, h.now())
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "queue batch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process queue"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ProcessMessage enqueues one message and processes it immediately.
func (h *QueueHandler) ProcessMessage(c *gin.Context) {
	var req dto.ProcessMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(c.Request.Context(), "invalid process-message request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sc := startTrace(c, h.traceHeader, "http.queue.process_message")
	defer sc.End()
	ctx := logger.WithLogFields(sc.Context(), logger.LogFields{
		MessageID:      &req.MessageID,
		ConversationID: &req.ConversationID,
		CreatorSlug:    &req.CreatorSlug,
		Component:      "ai.http.queue",
	})

	entry, err := h.processor.EnqueueAndProcess(ctx, req.MessageID, req.ConversationID, req.CreatorSlug)
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "failed to process message", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	c.JSON(http.StatusOK, dto.ToQueueEntryResponse(entry))
}

package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/metrics"
	"github.com/Raphi52/OnlyVIP-sub000/internal/queue"
)

// BackgroundHandler dispatches task stream entries to the fan enrichment
// handlers.
type BackgroundHandler struct {
	memories  MemoryExtractor
	notes     NoteUpdater
	qualifier FanQualifier
	metrics   *metrics.Metrics
}

func NewBackgroundHandler(memories MemoryExtractor, notes NoteUpdater, qualifier FanQualifier, m *metrics.Metrics) *BackgroundHandler {
	return &BackgroundHandler{memories: memories, notes: notes, qualifier: qualifier, metrics: m}
}

func (h *BackgroundHandler) Handle(ctx context.Context, task queue.Task) error {
	fanTask := brain.FanTask{
		ConversationID: task.ConversationID,
		MessageID:      task.MessageID,
		FanID:          task.FanID,
		CreatorSlug:    task.CreatorSlug,
	}

	var err error
	switch task.TaskType {
	case queue.TaskTypeMemoryExtract:
		var stored int
		stored, err = h.memories.Extract(ctx, fanTask)
		if err == nil {
			slog.InfoContext(ctx, "fan memories extracted", "stored", stored)
		}
	case queue.TaskTypePersonalNote:
		err = h.notes.Update(ctx, fanTask)
	case queue.TaskTypeFanQualification:
		var (
			score int
			stage string
		)
		score, stage, err = h.qualifier.Qualify(ctx, fanTask)
		if err == nil {
			slog.InfoContext(ctx, "fan qualified", "score", score, "stage", stage)
		}
	default:
		err = fmt.Errorf("unknown task type %q", task.TaskType)
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	h.metrics.Task(string(task.TaskType), status)
	return err
}

package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
	"github.com/Raphi52/OnlyVIP-sub000/internal/queue"
)

type TaskWorkerConfig struct {
	MaxAttempts int
}

// TaskHandler runs one background task.
type TaskHandler interface {
	Handle(ctx context.Context, task queue.Task) error
}

// TaskWorker consumes the background task stream: memory extraction,
// personal notes and fan qualification.
type TaskWorker struct {
	consumer Consumer
	handler  TaskHandler
	cfg      TaskWorkerConfig

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewTaskWorker(consumer Consumer, handler TaskHandler, cfg TaskWorkerConfig) *TaskWorker {
	return &TaskWorker{
		consumer:  consumer,
		handler:   handler,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *TaskWorker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ai.worker.tasks"})
	slog.InfoContext(ctx, "task worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "task worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "task batch error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *TaskWorker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *TaskWorker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "task processing failed",
				"error", err,
				"task_message_id", msg.ID,
				"task_type", msg.TaskType)
			w.handleFailedMessage(ctx, msg, err)
		}
	}
	return nil
}

func (w *TaskWorker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in task processing",
				"panic", r,
				"task_message_id", msg.ID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage runs the task and acks it. Exported so the reclaimer can
// reuse it for stale deliveries.
func (w *TaskWorker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	taskType := string(msg.TaskType)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		TaskMessageID:  &msg.ID,
		TaskType:       &taskType,
		ConversationID: &msg.ConversationID,
		MessageID:      &msg.MessageID,
		CreatorSlug:    &msg.CreatorSlug,
	})
	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.process_task")
	defer sc.End()
	ctx = sc.Context()

	slog.DebugContext(ctx, "processing task", "attempt", msg.Attempt)

	if err := w.handler.Handle(ctx, msg.Task()); err != nil {
		sc.RecordError(err)
		return err
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The reclaimer redelivers it; handlers are idempotent enough.
		slog.WarnContext(ctx, "failed to ACK task", "error", err)
	}
	return nil
}

func (w *TaskWorker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending task to DLQ",
			"task_message_id", msg.ID,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send task to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed task",
		"task_message_id", msg.ID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue task", "error", requeueErr)
	}
}

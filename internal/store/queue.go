package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

const queueColumns = `id, message_id, conversation_id, creator_slug, scheduled_at, status,
	attempts, max_attempts, error, response, media_id, should_send_media, media_decision,
	tease_text, claimed_at, processed_at, created_at, updated_at`

type queueStore struct {
	db DBTX
}

func newQueueStore(db DBTX) QueueStore {
	return &queueStore{db: db}
}

func (s *queueStore) Enqueue(ctx context.Context, entry *model.QueueEntry) (*model.QueueEntry, bool, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO ai_response_queue (id, message_id, conversation_id, creator_slug, scheduled_at,
			status, attempts, max_attempts, should_send_media, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'PENDING', 0, $6, false, $7, $7)
		ON CONFLICT (message_id) DO NOTHING
		RETURNING `+queueColumns,
		entry.ID, entry.MessageID, entry.ConversationID, entry.CreatorSlug, entry.ScheduledAt,
		entry.MaxAttempts, entry.CreatedAt)

	created, err := scanQueueEntry(row)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(notFound(err), ErrNotFound) {
		return nil, false, fmt.Errorf("inserting queue entry: %w", err)
	}

	// Conflict on message_id: the message is already queued.
	existing, err := scanQueueEntry(s.db.QueryRow(ctx,
		`SELECT `+queueColumns+` FROM ai_response_queue WHERE message_id = $1`, entry.MessageID))
	if err != nil {
		return nil, false, notFound(err)
	}
	return existing, false, nil
}

func (s *queueStore) GetByID(ctx context.Context, id int64) (*model.QueueEntry, error) {
	entry, err := scanQueueEntry(s.db.QueryRow(ctx,
		`SELECT `+queueColumns+` FROM ai_response_queue WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return entry, nil
}

func (s *queueStore) ListDue(ctx context.Context, now time.Time, limit int) ([]model.QueueEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+queueColumns+`
		FROM ai_response_queue
		WHERE status = 'PENDING' AND scheduled_at <= $1
		ORDER BY scheduled_at ASC, id ASC
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("listing due entries: %w", err)
	}
	return collect(rows, scanQueueEntry)
}

func (s *queueStore) Claim(ctx context.Context, id int64, now time.Time) (bool, *model.QueueEntry, error) {
	entry, err := scanQueueEntry(s.db.QueryRow(ctx, `
		UPDATE ai_response_queue
		SET status = 'PROCESSING', attempts = attempts + 1, claimed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'PENDING'
		RETURNING `+queueColumns, id, now))
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			// Claimed by a concurrent run or no longer pending
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("claiming queue entry: %w", err)
	}
	return true, entry, nil
}

func (s *queueStore) ReleaseClaim(ctx context.Context, id int64, scheduledAt time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_response_queue
		SET status = 'PENDING', attempts = GREATEST(attempts - 1, 0), scheduled_at = $2,
			claimed_at = NULL, updated_at = now()
		WHERE id = $1 AND status = 'PROCESSING'`, id, scheduledAt)
	return expectOne(tag, err, "releasing claim")
}

func (s *queueStore) Complete(ctx context.Context, id int64, result model.QueueResult, now time.Time) error {
	var decision *string
	if result.MediaDecision != nil {
		d := string(*result.MediaDecision)
		decision = &d
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE ai_response_queue
		SET status = 'COMPLETED', response = $2, media_id = $3, should_send_media = $4,
			media_decision = $5, tease_text = $6, error = NULL, processed_at = $7, updated_at = $7
		WHERE id = $1 AND status = 'PROCESSING'`,
		id, result.Response, result.MediaID, result.ShouldSendMedia, decision, result.TeaseText, now)
	return expectOne(tag, err, "completing queue entry")
}

func (s *queueStore) Skip(ctx context.Context, id int64, reason string, now time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_response_queue
		SET status = 'SKIPPED', error = $2, processed_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'PROCESSING'`, id, reason, now)
	return expectOne(tag, err, "skipping queue entry")
}

func (s *queueStore) Fail(ctx context.Context, id int64, reason string, now time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_response_queue
		SET status = 'FAILED', error = $2, processed_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'PROCESSING'`, id, reason, now)
	return expectOne(tag, err, "failing queue entry")
}

func (s *queueStore) Requeue(ctx context.Context, id int64, reason string, scheduledAt time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_response_queue
		SET status = 'PENDING', error = $2, scheduled_at = $3, claimed_at = NULL, updated_at = now()
		WHERE id = $1 AND status = 'PROCESSING' AND attempts < max_attempts`, id, reason, scheduledAt)
	return expectOne(tag, err, "requeuing queue entry")
}

func (s *queueStore) ReclaimStale(ctx context.Context, claimedBefore, now time.Time, reason string) (int64, int64, error) {
	failedTag, err := s.db.Exec(ctx, `
		UPDATE ai_response_queue
		SET status = 'FAILED', error = $3, processed_at = $2, updated_at = $2
		WHERE status = 'PROCESSING' AND claimed_at < $1 AND attempts >= max_attempts`,
		claimedBefore, now, reason)
	if err != nil {
		return 0, 0, fmt.Errorf("failing stale entries: %w", err)
	}

	requeuedTag, err := s.db.Exec(ctx, `
		UPDATE ai_response_queue
		SET status = 'PENDING', error = $3, scheduled_at = $2, claimed_at = NULL, updated_at = $2
		WHERE status = 'PROCESSING' AND claimed_at < $1 AND attempts < max_attempts`,
		claimedBefore, now, reason)
	if err != nil {
		return 0, failedTag.RowsAffected(), fmt.Errorf("requeuing stale entries: %w", err)
	}

	return requeuedTag.RowsAffected(), failedTag.RowsAffected(), nil
}

func scanQueueEntry(row scanner) (*model.QueueEntry, error) {
	var (
		e        model.QueueEntry
		status   string
		decision *string
	)
	if err := row.Scan(
		&e.ID, &e.MessageID, &e.ConversationID, &e.CreatorSlug, &e.ScheduledAt, &status,
		&e.Attempts, &e.MaxAttempts, &e.Error, &e.Result.Response, &e.Result.MediaID,
		&e.Result.ShouldSendMedia, &decision, &e.Result.TeaseText, &e.ClaimedAt, &e.ProcessedAt,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Status = model.QueueStatus(status)
	if decision != nil {
		d := model.MediaDecisionType(*decision)
		e.Result.MediaDecision = &d
	}
	return &e, nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

const scriptColumns = `s.id, s.agency_id, s.creator_slug, s.name, s.content, s.category, s.intent,
	s.trigger_keywords, s.trigger_patterns, s.fan_stage, s.conversion_rate, s.success_score,
	s.priority, s.min_confidence, s.allow_ai_modify, s.preserve_core, s.suggested_price,
	s.next_on_success_id, s.next_on_reject_id, s.is_active, s.status, s.usage_count,
	s.messages_sent, s.sales_generated, s.revenue_generated,
	COALESCE((SELECT json_agg(json_build_object('media_id', sm.media_id, 'position', sm.position)
		ORDER BY sm.position) FROM script_media sm WHERE sm.script_id = s.id), '[]'::json),
	s.created_at, s.updated_at`

type scriptStore struct {
	db DBTX
}

func newScriptStore(db DBTX) ScriptStore {
	return &scriptStore{db: db}
}

func (s *scriptStore) GetByID(ctx context.Context, id int64) (*model.Script, error) {
	script, err := scanScript(s.db.QueryRow(ctx,
		`SELECT `+scriptColumns+` FROM scripts s WHERE s.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return script, nil
}

// ListCandidates pushes the candidate filter into SQL, then re-applies
// ScriptQuery.Admits so the result never depends on SQL/Go drift.
func (s *scriptStore) ListCandidates(ctx context.Context, q model.ScriptQuery) ([]model.Script, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+scriptColumns+`
		FROM scripts s
		WHERE s.is_active = true AND s.status = 'APPROVED'
			AND s.agency_id IS NOT DISTINCT FROM $1
			AND (s.creator_slug IS NULL OR s.creator_slug = $2)
			AND ($3::text IS NULL OR s.intent = $3
				OR (COALESCE($4::text, '') <> '' AND s.category LIKE $4::text || '%'))
			AND (s.fan_stage IS NULL OR s.fan_stage = 'any' OR s.fan_stage = $5)
		ORDER BY s.priority DESC, s.id ASC`,
		q.AgencyID, q.CreatorSlug, q.Intent, q.Category, q.FanStage)
	if err != nil {
		return nil, fmt.Errorf("listing candidate scripts: %w", err)
	}

	scripts, err := collect(rows, scanScript)
	if err != nil {
		return nil, err
	}

	admitted := scripts[:0]
	for _, script := range scripts {
		if q.Admits(script) {
			admitted = append(admitted, script)
		}
	}
	return admitted, nil
}

func (s *scriptStore) IncrementUsage(ctx context.Context, scriptID int64) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE scripts
		SET usage_count = usage_count + 1, messages_sent = messages_sent + 1, updated_at = now()
		WHERE id = $1`, scriptID)
	return expectOne(tag, err, "incrementing script usage")
}

func (s *scriptStore) RecordSale(ctx context.Context, scriptID int64, amount int) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE scripts
		SET sales_generated = sales_generated + 1,
			revenue_generated = revenue_generated + $2,
			conversion_rate = CASE WHEN messages_sent > 0
				THEN (sales_generated + 1)::float8 / messages_sent * 100
				ELSE 0 END,
			updated_at = now()
		WHERE id = $1`, scriptID, amount)
	return expectOne(tag, err, "recording script sale")
}

func scanScript(row scanner) (*model.Script, error) {
	var (
		sc                        model.Script
		keywords, patterns, media []byte
	)
	if err := row.Scan(
		&sc.ID, &sc.AgencyID, &sc.CreatorSlug, &sc.Name, &sc.Content, &sc.Category, &sc.Intent,
		&keywords, &patterns, &sc.FanStage, &sc.ConversionRate, &sc.SuccessScore,
		&sc.Priority, &sc.MinConfidence, &sc.AllowAIModify, &sc.PreserveCore, &sc.SuggestedPrice,
		&sc.NextOnSuccessID, &sc.NextOnRejectID, &sc.IsActive, &sc.Status, &sc.UsageCount,
		&sc.MessagesSent, &sc.SalesGenerated, &sc.RevenueGenerated, &media,
		&sc.CreatedAt, &sc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := unmarshalOptional(keywords, &sc.TriggerKeywords); err != nil {
		return nil, fmt.Errorf("unmarshal trigger keywords: %w", err)
	}
	if err := unmarshalOptional(patterns, &sc.TriggerPatterns); err != nil {
		return nil, fmt.Errorf("unmarshal trigger patterns: %w", err)
	}

	var items []struct {
		MediaID  int64 `json:"media_id"`
		Position int   `json:"position"`
	}
	if err := json.Unmarshal(media, &items); err != nil && len(media) > 0 {
		return nil, fmt.Errorf("unmarshal script media: %w", err)
	}
	for _, it := range items {
		sc.Media = append(sc.Media, model.ScriptMedia{MediaID: it.MediaID, Position: it.Position})
	}
	return &sc, nil
}

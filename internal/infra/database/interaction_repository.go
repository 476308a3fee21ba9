package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

type InteractionRepository struct {
	DB  *DB
	Now func() time.Time
}

func NewInteractionRepository(db *DB) *InteractionRepository {
	return &InteractionRepository{DB: db, Now: time.Now}
}

func (r *InteractionRepository) Insert(ctx context.Context, i *entity.Interaction) error {
	meta := i.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	now := r.Now().UTC().Truncate(time.Microsecond)
	d := r.DB.Dialect
	query := d.Rebind(`INSERT INTO interactions (id, prospect_id, interaction_type, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	if _, err := r.DB.ExecContext(ctx, query, i.ID, i.ProspectID, i.Type, i.Content, string(raw), d.Time(now)); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	i.Metadata = meta
	i.CreatedAt = now
	return nil
}

func (r *InteractionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, r.DB.Dialect.Rebind(`DELETE FROM interactions WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete interaction: %w", err)
	}
	return nil
}

// ListByProspect returns interactions oldest first.
func (r *InteractionRepository) ListByProspect(ctx context.Context, prospectID string) ([]*entity.Interaction, error) {
	query := r.DB.Dialect.Rebind(`SELECT id, prospect_id, interaction_type, content, metadata, created_at
		FROM interactions WHERE prospect_id = ? ORDER BY created_at, id`)

	rows, err := r.DB.QueryContext(ctx, query, prospectID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	out := []*entity.Interaction{}
	for rows.Next() {
		var (
			i         entity.Interaction
			meta      string
			createdAt dbTime
		)
		if err := rows.Scan(&i.ID, &i.ProspectID, &i.Type, &i.Content, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		i.Metadata = map[string]any{}
		if err := json.Unmarshal([]byte(meta), &i.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
		i.CreatedAt = createdAt.Time
		out = append(out, &i)
	}
	return out, rows.Err()
}

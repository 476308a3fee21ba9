package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	InteractionEmail    = "email"
	InteractionAnalysis = "analysis"
)

// Interaction is an append-only record of something that happened to a prospect.
type Interaction struct {
	ID         string         `json:"id"`
	ProspectID string         `json:"prospect_id"`
	Type       string         `json:"interaction_type"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  time.Time      `json:"created_at"`
}

func NewInteraction(prospectID, kind, content string, metadata map[string]any) *Interaction {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Interaction{
		ID:         uuid.New().String(),
		ProspectID: prospectID,
		Type:       kind,
		Content:    content,
		Metadata:   metadata,
	}
}

type InteractionRepositoryInterface interface {
	Insert(ctx context.Context, i *Interaction) error
	Delete(ctx context.Context, id string) error
}

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Parameter descriptions used to reach the Notion database.
const (
	ParamURLBaseNotion = "URL_BASE_NOTION"
	ParamHeadersNotion = "HEADERS_NOTION"
)

// Productivity is one persisted scoring pass over a Notion database.
type Productivity struct {
	ID                uuid.UUID `json:"id"`
	Productivity      int       `json:"productivity"`
	Total             int       `json:"total"`
	CompletedItems    int       `json:"completed_items"`
	TotalItems        int       `json:"total_items"`
	CompletionPercent float64   `json:"completion_percent"`
	SaveDate          time.Time `json:"save_date"`
}

type ProductivityFilter struct {
	Since  *time.Time
	Limit  int
	Offset int
}

// Parameter is a named configuration value looked up by description.
type Parameter struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Value       string    `json:"value"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Store interface {
	SaveProductivity(ctx context.Context, p *Productivity) error
	GetLatestProductivity(ctx context.Context) (*Productivity, error)
	ListProductivity(ctx context.Context, filter ProductivityFilter) ([]*Productivity, error)

	GetParameterByDescription(ctx context.Context, description string) (*Parameter, error)
	UpsertParameter(ctx context.Context, p *Parameter) error

	Close() error
}

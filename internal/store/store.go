// Package store persists run history for scoring and reporting
// operations. Persistence is best-effort operational metadata: the scoring
// pipeline itself never reads it back.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// Run kinds.
const (
	KindScore     = "score"
	KindCompare   = "compare"
	KindPortfolio = "portfolio"
	KindReport    = "report"
)

// Run is one recorded invocation of a public operation.
type Run struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Request   json.RawMessage `json:"request,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store defines the run-history persistence interface.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Migrate(ctx context.Context) error
	Close() error
}

// NoopStore discards everything; used when store.driver is "none".
type NoopStore struct{}

func (NoopStore) SaveRun(context.Context, *Run) error        { return nil }
func (NoopStore) GetRun(context.Context, string) (*Run, error) {
	return nil, ErrRunNotFound
}
func (NoopStore) ListRuns(context.Context, int) ([]Run, error) { return nil, nil }
func (NoopStore) Migrate(context.Context) error                { return nil }
func (NoopStore) Close() error                                 { return nil }

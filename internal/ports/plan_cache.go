package ports

import (
	"context"

	"github.com/ncastellan/enhancer/internal/domain"
)

// PlanCache stores computed breakdowns keyed by (item, target level).
// Implementations bound their size; the planner owns invalidation.
type PlanCache interface {
	// Get returns the cached breakdown for the key, if present.
	Get(ctx context.Context, itemID string, targetLevel int) (domain.Breakdown, bool, error)

	// Set stores a breakdown under the key, evicting as needed.
	Set(ctx context.Context, itemID string, targetLevel int, b domain.Breakdown) error

	// Flush drops every cached entry. Called when the price snapshot
	// the entries were computed against is no longer current.
	Flush(ctx context.Context) error
}

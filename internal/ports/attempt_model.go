package ports

import "github.com/ncastellan/enhancer/internal/domain"

// AttemptModel estimates the expected effort of carrying an item from
// level 0 to params.TargetLevel under a protection threshold.
type AttemptModel interface {
	// Compute returns the expected attempts, total time and protection
	// uses for the given parameters. Implementations are pure: same
	// params, same result. A non-finite or negative result makes the
	// caller discard that strategy.
	Compute(params domain.EnhanceParams) (domain.AttemptResult, error)
}

package enhancing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ncastellan/enhancer/internal/domain"
)

// Model is the built-in attempt model: an absorbing Markov chain over
// enhancement levels, solved exactly.
//
// From level i an attempt succeeds with probability p(i) and moves to
// i+1 (or i+2 on a blessed-tea proc). A failure resets the item to 0,
// unless the protection threshold is active (i >= ProtectFrom), in which
// case the item drops a single level and consumes one protection item.
// The target level is the absorbing state; the expected visits equations
//
//	E(i) = 1 + pUp1(i)·E(i+1) + pUp2(i)·E(i+2) + q(i)·E(fail(i))
//
// form a linear system of at most 20 unknowns, solved with gonum. The
// expected protection uses satisfy the same system with the source term
// q(i) on protected states, so both are solved in one call.
type Model struct{}

// NewModel returns the built-in model.
func NewModel() *Model { return &Model{} }

// Compute implements ports.AttemptModel.
func (m *Model) Compute(p domain.EnhanceParams) (domain.AttemptResult, error) {
	if err := p.Validate(); err != nil {
		return domain.AttemptResult{}, err
	}

	n := p.TargetLevel // transient states 0..n-1
	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, 2, nil) // col 0: attempts, col 1: protection uses

	for i := 0; i < n; i++ {
		rate := successRate(i, p)
		bless := blessedChance(p)
		up1 := rate * (1 - bless)
		up2 := rate * bless
		fail := 1 - rate

		protected := p.ProtectFrom >= 2 && i >= p.ProtectFrom
		failTo := 0
		if protected {
			failTo = i - 1
		}

		a.Set(i, i, a.At(i, i)+1)
		if i+1 < n {
			a.Set(i, i+1, a.At(i, i+1)-up1)
		}
		if i+2 < n {
			a.Set(i, i+2, a.At(i, i+2)-up2)
		}
		a.Set(i, failTo, a.At(i, failTo)-fail)

		b.Set(i, 0, 1)
		if protected {
			b.Set(i, 1, fail)
		}
	}

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return domain.AttemptResult{}, fmt.Errorf("enhancing.Compute: solve %dx%d system: %w", n, n, err)
	}

	attempts := x.At(0, 0)
	return domain.AttemptResult{
		ExpectedAttempts:       attempts,
		TotalTime:              attempts * actionSeconds(p),
		ExpectedProtectionUses: x.At(0, 1),
	}, nil
}

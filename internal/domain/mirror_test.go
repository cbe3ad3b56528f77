package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFib_FusionConvention(t *testing.T) {
	assert.Equal(t, 1, Fib(0))
	assert.Equal(t, 1, Fib(1))
	assert.Equal(t, 2, Fib(2))
	assert.Equal(t, 3, Fib(3))
	assert.Equal(t, 5, Fib(4))
	assert.Equal(t, 8, Fib(5))
}

func TestMirrorFib_CountsIntermediateFusions(t *testing.T) {
	assert.Equal(t, 1, MirrorFib(0))
	assert.Equal(t, 2, MirrorFib(1))
	assert.Equal(t, 4, MirrorFib(2))
	assert.Equal(t, 7, MirrorFib(3))
	assert.Equal(t, 12, MirrorFib(4))
}

func TestMirrorConsumption_SingleFusion(t *testing.T) {
	// target == start: una sola fusión, una copia de cada nivel hoja
	plan := MirrorConsumption(3, 3, 120, 260, 35)

	assert.Equal(t, 3, plan.StartLevel)
	assert.True(t, plan.Applied())
	assert.Equal(t, 1, plan.MirrorCount)
	assert.Equal(t, 35.0, plan.MirrorCost)
	assert.Len(t, plan.Consumed, 2)
	assert.Equal(t, ConsumedItem{Level: 1, Quantity: 1, CostEach: 120, Total: 120}, plan.Consumed[0])
	assert.Equal(t, ConsumedItem{Level: 2, Quantity: 1, CostEach: 260, Total: 260}, plan.Consumed[1])
	assert.Equal(t, 415.0, plan.TotalCost())
}

func TestMirrorConsumption_ReconcilesWithFusionRecurrence(t *testing.T) {
	const (
		start  = 3
		target = 9
		low    = 120.0
		high   = 260.0
		price  = 35.0
	)

	// escalera reescrita por la recurrencia c(L) = c(L-2) + c(L-1) + precio
	prev2, prev1 := low, high
	var expected float64
	for l := start; l <= target; l++ {
		expected = prev2 + prev1 + price
		prev2, prev1 = prev1, expected
	}

	plan := MirrorConsumption(start, target, low, high, price)
	assert.InEpsilon(t, expected, plan.TotalCost(), 1e-6)

	// cantidades del árbol: fib(n) y fib(n+1) con n = target - start
	assert.Equal(t, Fib(target-start), plan.Consumed[0].Quantity)
	assert.Equal(t, Fib(target-start+1), plan.Consumed[1].Quantity)
	assert.Equal(t, MirrorFib(target-start), plan.MirrorCount)
}

func TestMirrorPlan_ZeroValueNotApplied(t *testing.T) {
	var plan MirrorPlan
	assert.False(t, plan.Applied())
	assert.Equal(t, 0.0, plan.TotalCost())
}

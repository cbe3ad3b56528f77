package enhancing

import "github.com/ncastellan/enhancer/internal/domain"

// Tuning constants for the built-in attempt model. The base table is the
// per-level success chance before modifiers, attempting from that level.
const (
	baseActionSeconds    = 12.0   // one enhancement action at neutral speed
	houseBonusPerLevel   = 0.005  // observatory room: +0.5% success per level
	surplusBonusPerLevel = 0.0005 // +0.05% per enhancing level above the item
	blessedBaseChance    = 0.01   // chance that a success jumps +2 instead of +1
	minSuccessRate       = 0.005
	maxSuccessRate       = 0.95
)

var baseSuccessRate = [domain.MaxTargetLevel]float64{
	0.50, 0.45, 0.45, 0.40, 0.40,
	0.40, 0.35, 0.35, 0.35, 0.325,
	0.30, 0.275, 0.25, 0.225, 0.20,
	0.175, 0.15, 0.125, 0.10, 0.075,
}

// successRate derives the effective success chance when attempting from
// the given level: the base table scaled by the skill ratio against the
// item level, the tool bonus and the house room bonus, clamped to a sane
// range.
func successRate(level int, p domain.EnhanceParams) float64 {
	rate := baseSuccessRate[level] * skillFactor(p)
	rate *= 1 + p.ToolBonus
	rate *= 1 + houseBonusPerLevel*float64(p.HouseLevel)
	if rate < minSuccessRate {
		return minSuccessRate
	}
	if rate > maxSuccessRate {
		return maxSuccessRate
	}
	return rate
}

// skillFactor penalizes enhancing below the item level (down to 0.5x at
// skill 0) and grants a small surplus bonus above it.
func skillFactor(p domain.EnhanceParams) float64 {
	if p.ItemLevel <= 0 {
		return 1 + surplusBonusPerLevel*float64(p.EnhancingLevel)
	}
	ratio := float64(p.EnhancingLevel) / float64(p.ItemLevel)
	if ratio >= 1 {
		return 1 + surplusBonusPerLevel*float64(p.EnhancingLevel-p.ItemLevel)
	}
	return 0.5 + 0.5*ratio
}

// blessedChance is the probability that a successful attempt advances
// two levels instead of one.
func blessedChance(p domain.EnhanceParams) float64 {
	if !p.BlessedTea {
		return 0
	}
	return blessedBaseChance * (1 + p.GuzzlingBonus)
}

// actionSeconds is the real duration of one attempt under the speed bonus.
func actionSeconds(p domain.EnhanceParams) float64 {
	return baseActionSeconds / (1 + p.SpeedBonus)
}

package optimizer

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/ncastellan/enhancer/internal/domain"
)

// Ladder construye la escalera de costes mínimos por nivel.
type Ladder struct {
	evaluator *Evaluator
	logger    *slog.Logger
}

// NewLadder crea un Ladder sobre el evaluador dado.
func NewLadder(evaluator *Evaluator, logger *slog.Logger) *Ladder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ladder{evaluator: evaluator, logger: logger}
}

// Build devuelve la escalera de costes 0..TargetLevel y la lista de
// estrategias viables del nivel objetivo en coste ascendente (orden
// estable). El mínimo de cada nivel se elige con independencia del
// resto: el nivel 5 puede usar protección desde +3 y el 6 ninguna, la
// escalera mezcla estrategias libremente.
//
// Si en algún nivel no sobrevive ninguna estrategia, la construcción
// entera falla con ErrNoViableStrategy: una entrada a 0 corrompería la
// recurrencia del espejo.
func (l *Ladder) Build(params domain.EnhanceParams, prices ItemPrices) ([]float64, []domain.Strategy, error) {
	target := params.TargetLevel
	ladder := make([]float64, target+1)
	ladder[0] = prices.Base

	var targetStrategies []domain.Strategy
	for level := 1; level <= target; level++ {
		best := math.Inf(1)
		var viable []domain.Strategy
		for _, pf := range protectChoices(level) {
			p := params
			p.TargetLevel = level
			p.ProtectFrom = pf

			s, err := l.evaluator.Evaluate(p, prices)
			if err != nil {
				l.logger.Debug("strategy dropped", "level", level, "error", err)
				continue
			}
			viable = append(viable, s)
			if s.TotalCost < best {
				best = s.TotalCost
			}
		}
		if math.IsInf(best, 1) {
			return nil, nil, fmt.Errorf("optimizer.Build: level %d: %w", level, domain.ErrNoViableStrategy)
		}
		ladder[level] = best

		if level == target {
			sort.SliceStable(viable, func(i, j int) bool {
				return viable[i].TotalCost < viable[j].TotalCost
			})
			targetStrategies = viable
		}
	}
	return ladder, targetStrategies, nil
}

// protectChoices enumera los umbrales candidatos para un nivel: no
// proteger nunca, o proteger desde cada nivel 2..L. Un umbral por encima
// del objetivo no se genera.
func protectChoices(level int) []int {
	choices := make([]int, 0, level)
	choices = append(choices, 0)
	for pf := 2; pf <= level; pf++ {
		choices = append(choices, pf)
	}
	return choices
}

package optimizer

import (
	"fmt"

	"github.com/ncastellan/enhancer/internal/domain"
	"github.com/ncastellan/enhancer/internal/ports"
)

// ItemPrices agrupa los precios de un item que comparten todas las
// estrategias de una planificación. Se resuelven una sola vez por item:
// la búsqueda evalúa hasta 20 niveles x 20 estrategias y no tiene
// sentido repetir las mismas consultas de precio en cada una.
type ItemPrices struct {
	Base            float64 // precio realista del item sin mejorar
	MaterialPerTry  float64 // materiales consumidos por intento
	ProtectionID    string  // protección más barata; "" si ninguna cotiza
	ProtectionPrice float64
}

// Evaluator precia una estrategia de protección concreta contra el
// modelo de intentos.
type Evaluator struct {
	model ports.AttemptModel
}

// NewEvaluator crea un Evaluator sobre el modelo dado.
func NewEvaluator(model ports.AttemptModel) *Evaluator {
	return &Evaluator{model: model}
}

// Evaluate evalúa la estrategia descrita por params (TargetLevel y
// ProtectFrom ya ajustados). Un modelo que falla o devuelve números no
// finitos o negativos descarta la estrategia con error: nunca se
// convierte en coste 0, eso corrompería el mínimo.
func (e *Evaluator) Evaluate(params domain.EnhanceParams, prices ItemPrices) (domain.Strategy, error) {
	label := domain.StrategyLabel(params.ProtectFrom)

	res, err := e.model.Compute(params)
	if err != nil {
		return domain.Strategy{}, fmt.Errorf("optimizer.Evaluate: %s: %w", label, err)
	}
	if !res.Valid() {
		return domain.Strategy{}, fmt.Errorf("optimizer.Evaluate: %s: model returned non-finite or negative values", label)
	}

	s := domain.Strategy{
		ProtectFrom:      params.ProtectFrom,
		Label:            label,
		ExpectedAttempts: res.ExpectedAttempts,
		TotalTime:        res.TotalTime,
		BaseCost:         prices.Base,
		MaterialCost:     prices.MaterialPerTry * res.ExpectedAttempts,
	}
	if params.ProtectFrom >= 2 {
		s.ProtectionItemID = prices.ProtectionID
		s.ProtectionCount = res.ExpectedProtectionUses
		s.ProtectionCost = prices.ProtectionPrice * res.ExpectedProtectionUses
	}
	s.TotalCost = s.BaseCost + s.MaterialCost + s.ProtectionCost
	return s, nil
}

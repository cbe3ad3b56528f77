package domain

import (
	"fmt"
	"time"
)

// MirrorLabel es la etiqueta de la estrategia sintética que sustituye a
// las tradicionales cuando la vía del espejo de filósofo gana.
const MirrorLabel = "philosopher's mirror"

// Strategy es el resultado de evaluar una estrategia de protección
// concreta contra un nivel objetivo.
type Strategy struct {
	ProtectFrom int    // 0 = sin protección
	Label       string // "no protection", "protect from +3", ...

	ExpectedAttempts float64
	TotalTime        float64 // segundos esperados

	BaseCost         float64 // precio realista del item base sin mejorar
	MaterialCost     float64 // materiales por intento x intentos esperados
	ProtectionCost   float64 // precio de la protección x usos esperados
	ProtectionItemID string  // protección más barata elegida; "" si no aplica
	ProtectionCount  float64 // usos esperados de protección
	TotalCost        float64 // base + materiales + protección
}

// StrategyLabel construye la etiqueta humana de una estrategia.
func StrategyLabel(protectFrom int) string {
	if protectFrom == 0 {
		return "no protection"
	}
	return fmt.Sprintf("protect from +%d", protectFrom)
}

// Breakdown es el desglose completo de una planificación: estrategia
// óptima, todas las viables al nivel objetivo, el plan de espejos si
// aplica y la escalera de costes final. Se construye una vez por
// invocación y no se muta después.
type Breakdown struct {
	ItemID      string
	ItemName    string
	ItemLevel   int
	TargetLevel int

	Optimal    Strategy
	Strategies []Strategy // viables al nivel objetivo, coste ascendente
	Mirror     MirrorPlan
	Ladder     []float64 // coste mínimo por nivel; índice = nivel, [0] = item base

	PlannedAt time.Time
}

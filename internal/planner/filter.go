package planner

import (
	"github.com/ncastellan/enhancer/internal/domain"
)

// FilterConfig contiene los parámetros configurables de filtrado del
// barrido de catálogo.
type FilterConfig struct {
	// MaxTotalCost descarta items cuyo plan óptimo cuesta más que esto (0 = sin límite).
	MaxTotalCost float64
	// MaxCostPerLevel descarta planes cuyo coste medio por nivel supera este valor (0 = sin límite).
	MaxCostPerLevel float64
	// MaxHours descarta planes cuyo tiempo esperado de juego supera estas horas (0 = sin límite).
	MaxHours float64
	// OnlyMirror si true, solo incluye items donde la vía del espejo gana a la tradicional.
	OnlyMirror bool
	// MaxResults recorta la lista final tras ordenar (0 = sin límite).
	MaxResults int
}

// DefaultFilterConfig devuelve una configuración de filtrado permisiva:
// el barrido enseña de serie todo el catálogo ordenado por coste.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MaxResults: 25,
	}
}

// Filter aplica los filtros configurados sobre una lista de desgloses.
type Filter struct {
	cfg FilterConfig
}

// NewFilter crea un Filter con la configuración dada.
func NewFilter(cfg FilterConfig) *Filter {
	return &Filter{cfg: cfg}
}

// Apply devuelve los desgloses que pasan todos los filtros.
func (f *Filter) Apply(plans []domain.Breakdown) []domain.Breakdown {
	result := make([]domain.Breakdown, 0, len(plans))
	for _, plan := range plans {
		if f.passes(plan) {
			result = append(result, plan)
		}
	}
	return result
}

// passes devuelve true si el desglose supera todos los criterios.
func (f *Filter) passes(plan domain.Breakdown) bool {
	if f.cfg.MaxTotalCost > 0 && plan.Optimal.TotalCost > f.cfg.MaxTotalCost {
		return false
	}
	if f.cfg.MaxCostPerLevel > 0 && plan.TargetLevel > 0 {
		perLevel := plan.Optimal.TotalCost / float64(plan.TargetLevel)
		if perLevel > f.cfg.MaxCostPerLevel {
			return false
		}
	}
	// la vía del espejo no gasta tiempo de juego en intentos propios
	if f.cfg.MaxHours > 0 && !plan.Mirror.Applied() {
		if plan.Optimal.TotalTime > f.cfg.MaxHours*3600 {
			return false
		}
	}
	if f.cfg.OnlyMirror && !plan.Mirror.Applied() {
		return false
	}
	return true
}

package domain

import (
	"errors"
	"fmt"
	"math"
)

// Rango de niveles de mejora soportado. El proceso parte siempre de 0.
const (
	MinTargetLevel = 1
	MaxTargetLevel = 20
)

// Errores centinela del planificador. Se comprueban con errors.Is.
var (
	ErrInvalidTargetLevel = errors.New("target level out of range")
	ErrUnknownItem        = errors.New("item not in catalog")
	ErrNotEnhanceable     = errors.New("item has no enhancement materials")
	ErrNoViableStrategy   = errors.New("no viable strategy")
)

// EnhanceParams agrupa los parámetros de una evaluación. Es un value
// object: cada estrategia evaluada recibe su propia copia con TargetLevel
// y ProtectFrom ajustados, nunca una referencia compartida.
type EnhanceParams struct {
	EnhancingLevel int     // nivel de la habilidad de enhancing del jugador
	HouseLevel     int     // nivel de la sala de la casa que da bonus de éxito
	ToolBonus      float64 // bonus fraccional de la herramienta (0.05 = +5%)
	SpeedBonus     float64 // bonus fraccional de velocidad de acción
	ItemLevel      int     // nivel del item a mejorar
	TargetLevel    int     // nivel objetivo, 1..20
	ProtectFrom    int     // 0 = nunca proteger; >=2 = proteger desde ese nivel
	BlessedTea     bool    // con té bendito cada éxito puede subir +2
	GuzzlingBonus  float64 // concentración del té; escala su probabilidad
}

// Validate comprueba el rango del nivel objetivo. El resto de campos
// admite cero como valor neutro.
func (p EnhanceParams) Validate() error {
	if p.TargetLevel < MinTargetLevel || p.TargetLevel > MaxTargetLevel {
		return fmt.Errorf("domain.EnhanceParams: target %d: %w", p.TargetLevel, ErrInvalidTargetLevel)
	}
	return nil
}

// AttemptResult es la salida del modelo de intentos: esperanzas sobre el
// proceso completo 0 -> target bajo una estrategia de protección.
type AttemptResult struct {
	ExpectedAttempts       float64
	TotalTime              float64 // segundos esperados
	ExpectedProtectionUses float64
}

// Valid informa de si el modelo devolvió números utilizables. Un modelo
// externo puede devolver NaN, infinitos o negativos; esos resultados
// descartan la estrategia en vez de colarse en los costes.
func (r AttemptResult) Valid() bool {
	for _, v := range [...]float64{r.ExpectedAttempts, r.TotalTime, r.ExpectedProtectionUses} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

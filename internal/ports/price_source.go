package ports

import (
	"context"

	"github.com/ncastellan/enhancer/internal/domain"
)

// PriceSource entrega pares ask/bid del snapshot de mercado vigente.
type PriceSource interface {
	// Quote devuelve el par del item. Un item desconocido devuelve el
	// par cero (sin datos), nunca un error: la ausencia de precio no es
	// un fallo.
	Quote(ctx context.Context, itemID string) (domain.Quote, error)

	// Fingerprint devuelve un hash ligero sobre una muestra de entradas
	// del snapshot. Cambia cuando cambian los precios; se usa para
	// invalidar cachés de planes.
	Fingerprint(ctx context.Context) (uint64, error)
}

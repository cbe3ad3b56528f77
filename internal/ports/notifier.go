package ports

import (
	"context"

	"github.com/ncastellan/enhancer/internal/domain"
)

// Notifier presenta los desgloses calculados al usuario.
type Notifier interface {
	// Notify muestra los desgloses ordenados por coste total ascendente.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, plans []domain.Breakdown) error
}

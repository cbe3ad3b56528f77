package ports

import (
	"context"
	"time"

	"github.com/ncastellan/enhancer/internal/domain"
)

// Storage persiste los desgloses calculados en cada ejecución.
type Storage interface {
	// SavePlans persiste los desgloses de una ejecución.
	SavePlans(ctx context.Context, plans []domain.Breakdown) error

	// GetHistory devuelve los desgloses registrados en el rango de
	// tiempo dado, del más reciente al más antiguo.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.Breakdown, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}

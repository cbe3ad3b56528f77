package planner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ncastellan/enhancer/internal/domain"
	"github.com/ncastellan/enhancer/internal/optimizer"
	"github.com/ncastellan/enhancer/internal/ports"
)

// defaultRevalidateEvery limita cada cuánto se recalcula la huella del
// snapshot de precios. Comparar la huella es barato pero no gratis, y un
// barrido lanza cientos de planificaciones seguidas contra los mismos
// precios.
const defaultRevalidateEvery = 30 * time.Second

// Memoizer añade la capa de memoización al optimizador: desgloses
// cacheados por (item, nivel objetivo), con invalidación completa de la
// caché cuando cambia la huella del snapshot de precios.
//
// La clave no incluye los parámetros del jugador: el memoizador asume
// que se mantienen estables durante la sesión. Si cambian, hay que
// descartar la caché con Flush del PlanCache subyacente.
type Memoizer struct {
	optimizer *optimizer.Optimizer
	cache     ports.PlanCache
	source    ports.PriceSource
	limiter   *rate.Limiter

	mu          sync.Mutex
	fingerprint uint64
}

// NewMemoizer crea un Memoizer. revalidateEvery <= 0 comprueba la
// huella en cada planificación.
func NewMemoizer(opt *optimizer.Optimizer, cache ports.PlanCache, source ports.PriceSource, revalidateEvery time.Duration) *Memoizer {
	limit := rate.Inf
	if revalidateEvery > 0 {
		limit = rate.Every(revalidateEvery)
	}
	return &Memoizer{
		optimizer: opt,
		cache:     cache,
		source:    source,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Plan devuelve el desglose cacheado si sigue vigente o planifica y
// cachea. Los fallos de la caché nunca rompen la planificación: se
// degradan a un miss con aviso.
func (m *Memoizer) Plan(ctx context.Context, itemID string, params domain.EnhanceParams) (domain.Breakdown, error) {
	m.revalidate(ctx)

	if b, ok, err := m.cache.Get(ctx, itemID, params.TargetLevel); err != nil {
		slog.Warn("plan cache read failed", "item", itemID, "err", err)
	} else if ok {
		return b, nil
	}

	b, err := m.optimizer.Plan(ctx, itemID, params)
	if err != nil {
		return domain.Breakdown{}, err
	}
	if err := m.cache.Set(ctx, itemID, params.TargetLevel, b); err != nil {
		slog.Warn("plan cache write failed", "item", itemID, "err", err)
	}
	return b, nil
}

// revalidate comprueba la huella del snapshot, con la frecuencia
// limitada, y descarta la caché entera si cambió. La huella es un hash
// sobre una muestra de entradas, no un diff completo: puede pasar por
// alto un cambio puntual a cambio de ser barata.
func (m *Memoizer) revalidate(ctx context.Context) {
	if !m.limiter.Allow() {
		return
	}

	fp, err := m.source.Fingerprint(ctx)
	if err != nil {
		slog.Warn("snapshot fingerprint failed", "err", err)
		return
	}

	m.mu.Lock()
	changed := m.fingerprint != 0 && m.fingerprint != fp
	m.fingerprint = fp
	m.mu.Unlock()

	if changed {
		if err := m.cache.Flush(ctx); err != nil {
			slog.Warn("plan cache flush failed", "err", err)
			return
		}
		slog.Info("price snapshot changed, plan cache flushed", "fingerprint", fp)
	}
}

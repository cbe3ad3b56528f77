package planner

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/ncastellan/enhancer/internal/domain"
	"github.com/ncastellan/enhancer/internal/optimizer"
	"github.com/ncastellan/enhancer/internal/ports"
)

// Config contiene la configuración del planificador.
type Config struct {
	SweepInterval   time.Duration
	RevalidateEvery time.Duration // mínimo entre chequeos del fingerprint; 0 = default
	Params          domain.EnhanceParams
	Filter          FilterConfig
	Workers         int
	DryRun          bool
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		SweepInterval: 5 * time.Minute,
		Params:        domain.EnhanceParams{TargetLevel: 10},
		Filter:        DefaultFilterConfig(),
	}
}

// Planner es el orquestador principal: planifica items sueltos bajo
// demanda y barre el catálogo completo en ciclos periódicos.
type Planner struct {
	cfg      Config
	memo     *Memoizer
	catalog  ports.Catalog
	storage  ports.Storage
	notifier ports.Notifier
	filter   *Filter
}

// New crea un Planner con todas las dependencias inyectadas. storage
// puede ser nil para ejecutar sin histórico.
func New(
	cfg Config,
	opt *optimizer.Optimizer,
	cache ports.PlanCache,
	source ports.PriceSource,
	catalog ports.Catalog,
	storage ports.Storage,
	notifier ports.Notifier,
) *Planner {
	revalidate := cfg.RevalidateEvery
	if revalidate <= 0 {
		revalidate = defaultRevalidateEvery
	}
	return &Planner{
		cfg:      cfg,
		memo:     NewMemoizer(opt, cache, source, revalidate),
		catalog:  catalog,
		storage:  storage,
		notifier: notifier,
		filter:   NewFilter(cfg.Filter),
	}
}

// PlanItem calcula (o recupera de la caché) el desglose de un item.
func (p *Planner) PlanItem(ctx context.Context, itemID string, params domain.EnhanceParams) (domain.Breakdown, error) {
	return p.memo.Plan(ctx, itemID, params)
}

// Run ejecuta el loop de barrido hasta que el contexto se cancele.
// Si cfg.DryRun está activo, solo ejecuta un ciclo.
func (p *Planner) Run(ctx context.Context) error {
	slog.Info("planner starting",
		"interval", p.cfg.SweepInterval,
		"target_level", p.cfg.Params.TargetLevel,
		"dry_run", p.cfg.DryRun,
	)

	if err := p.runCycle(ctx); err != nil {
		slog.Error("sweep cycle failed", "err", err)
		if p.cfg.DryRun {
			return err
		}
	}

	if p.cfg.DryRun {
		return nil
	}

	ticker := time.NewTicker(p.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("planner stopped")
			return nil
		case <-ticker.C:
			if err := p.runCycle(ctx); err != nil {
				slog.Error("sweep cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un barrido y devuelve los desgloses.
func (p *Planner) RunOnce(ctx context.Context) ([]domain.Breakdown, error) {
	return p.cycle(ctx)
}

// runCycle ejecuta un barrido completo y notifica/persiste los resultados.
func (p *Planner) runCycle(ctx context.Context) error {
	start := time.Now()

	plans, err := p.cycle(ctx)
	if err != nil {
		return err
	}

	if err := p.notifier.Notify(ctx, plans); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if p.storage != nil {
		if err := p.storage.SavePlans(ctx, plans); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("sweep cycle complete",
		"plans", len(plans),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// cycle hace plan → filter → rank sobre todos los items mejorables.
func (p *Planner) cycle(ctx context.Context) ([]domain.Breakdown, error) {
	items := p.catalog.EnhanceableItems()
	sort.Strings(items) // orden reproducible entre barridos

	plans := p.planAll(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := p.filter.Apply(plans)
	ranked := rankByCost(filtered)
	if max := p.cfg.Filter.MaxResults; max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked, nil
}

// rankByCost ordena los desgloses por coste total ascendente: el item
// más barato de llevar al objetivo primero.
func rankByCost(plans []domain.Breakdown) []domain.Breakdown {
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Optimal.TotalCost < plans[j].Optimal.TotalCost
	})
	return plans
}

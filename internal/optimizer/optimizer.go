package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ncastellan/enhancer/internal/domain"
	"github.com/ncastellan/enhancer/internal/pricing"
	"github.com/ncastellan/enhancer/internal/ports"
)

// Optimizer orquesta la planificación completa de un item: resolución
// de precios, búsqueda de estrategias, escalera de costes, pasada del
// espejo y ensamblado del desglose. Una invocación no comparte estado
// mutable con ninguna otra; es seguro planificar items distintos en
// paralelo.
type Optimizer struct {
	resolver *pricing.Resolver
	catalog  ports.Catalog
	ladder   *Ladder
	logger   *slog.Logger

	mirrorItem string
}

// New crea un Optimizer. mirrorItem identifica el consumible de
// duplicación; vacío usa el del catálogo estándar.
func New(model ports.AttemptModel, resolver *pricing.Resolver, catalog ports.Catalog, mirrorItem string, logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = slog.Default()
	}
	if mirrorItem == "" {
		mirrorItem = domain.PhilosophersMirrorID
	}
	return &Optimizer{
		resolver:   resolver,
		catalog:    catalog,
		ladder:     NewLadder(NewEvaluator(model), logger),
		logger:     logger,
		mirrorItem: mirrorItem,
	}
}

// Plan calcula el desglose completo para llevar el item de 0 al nivel
// objetivo. Falla limpio con un item desconocido o no mejorable; la
// ausencia de precios no es fallo, degrada hacia el coste de producción.
func (o *Optimizer) Plan(ctx context.Context, itemID string, params domain.EnhanceParams) (domain.Breakdown, error) {
	if err := params.Validate(); err != nil {
		return domain.Breakdown{}, err
	}
	item, ok := o.catalog.Item(itemID)
	if !ok {
		return domain.Breakdown{}, fmt.Errorf("optimizer.Plan: %s: %w", itemID, domain.ErrUnknownItem)
	}
	if len(o.catalog.EnhancementMaterials(itemID)) == 0 {
		return domain.Breakdown{}, fmt.Errorf("optimizer.Plan: %s: %w", itemID, domain.ErrNotEnhanceable)
	}
	if params.ItemLevel == 0 {
		params.ItemLevel = item.Level
	}

	prices, err := o.itemPrices(ctx, itemID)
	if err != nil {
		return domain.Breakdown{}, err
	}

	ladder, strategies, err := o.ladder.Build(params, prices)
	if err != nil {
		return domain.Breakdown{}, fmt.Errorf("optimizer.Plan: %s: %w", itemID, err)
	}

	mirrorPrice, err := o.resolver.RealisticBasePrice(ctx, o.mirrorItem)
	if err != nil {
		return domain.Breakdown{}, err
	}
	traditional := ladder[params.TargetLevel]
	plan := ApplyMirror(ladder, mirrorPrice)

	b := domain.Breakdown{
		ItemID:      itemID,
		ItemName:    item.Name,
		ItemLevel:   params.ItemLevel,
		TargetLevel: params.TargetLevel,
		Strategies:  strategies,
		Mirror:      plan,
		Ladder:      ladder,
		PlannedAt:   time.Now(),
	}
	if plan.Applied() {
		b.Optimal = domain.Strategy{
			Label:     domain.MirrorLabel,
			TotalCost: ladder[params.TargetLevel],
		}
		b.Strategies = []domain.Strategy{b.Optimal}
		o.logger.Debug("mirror path wins",
			"item", itemID,
			"start_level", plan.StartLevel,
			"cost", b.Optimal.TotalCost,
			"traditional_cost", traditional)
	} else {
		b.Optimal = strategies[0]
	}
	return b, nil
}

// itemPrices resuelve de una vez los precios que comparten todas las
// estrategias del item.
func (o *Optimizer) itemPrices(ctx context.Context, itemID string) (ItemPrices, error) {
	base, err := o.resolver.RealisticBasePrice(ctx, itemID)
	if err != nil {
		return ItemPrices{}, err
	}
	perTry, err := o.resolver.MaterialCostPerAction(ctx, itemID)
	if err != nil {
		return ItemPrices{}, err
	}
	protID, protPrice, err := o.resolver.CheapestProtection(ctx, itemID)
	if err != nil {
		return ItemPrices{}, err
	}
	return ItemPrices{
		Base:            base,
		MaterialPerTry:  perTry,
		ProtectionID:    protID,
		ProtectionPrice: protPrice,
	}, nil
}

package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ncastellan/enhancer/internal/domain"
	"github.com/ncastellan/enhancer/internal/ports"
)

// efficiencyDiscount descuenta el ahorro medio de materiales por tés de
// eficiencia al valorar el coste de producir un item.
const efficiencyDiscount = 0.9

// Resolver calcula precios de adquisición realistas combinando el
// snapshot de mercado con el catálogo de recetas. Es seguro para uso
// concurrente.
type Resolver struct {
	source  ports.PriceSource
	catalog ports.Catalog
	logger  *slog.Logger

	mu     sync.Mutex
	warned map[string]struct{}
}

// NewResolver crea un Resolver sobre la fuente de precios y el catálogo.
func NewResolver(source ports.PriceSource, catalog ports.Catalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		source:  source,
		catalog: catalog,
		logger:  logger,
		warned:  make(map[string]struct{}),
	}
}

// UnitPrice devuelve el precio de adquisición por unidad de un material:
// el precio fijo si lo tiene, o el lado ask saneado del mercado. Sin ask
// utilizable devuelve 0 y lo avisa una sola vez.
func (r *Resolver) UnitPrice(ctx context.Context, itemID string) (float64, error) {
	if fixed, ok := domain.FixedPrice(itemID); ok {
		return fixed, nil
	}
	quote, err := r.source.Quote(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("pricing.UnitPrice: quote %s: %w", itemID, err)
	}
	price := domain.AskPrice(quote)
	if price == 0 {
		r.warnOnce(itemID, "no ask side for material")
	}
	return price, nil
}

// ProductionCost estima lo que cuesta producir una unidad del item
// recorriendo el catálogo en busca de la acción cuya primera salida es
// el item. Las entradas se valoran a precio de unidad con el descuento
// de eficiencia; si la receta mejora un item base, su precio se suma
// aparte. Sin receta devuelve 0.
func (r *Resolver) ProductionCost(ctx context.Context, itemID string) (float64, error) {
	recipe, ok := r.catalog.Recipe(itemID)
	if !ok {
		return 0, nil
	}

	var inputs float64
	for _, in := range recipe.Inputs {
		price, err := r.UnitPrice(ctx, in.ItemID)
		if err != nil {
			return 0, fmt.Errorf("pricing.ProductionCost: input %s: %w", in.ItemID, err)
		}
		inputs += price * in.Count
	}
	inputs *= efficiencyDiscount

	outputs := recipe.OutputCount
	if outputs <= 0 {
		outputs = 1
	}
	cost := inputs / outputs

	if recipe.UpgradeItemID != "" {
		upgrade, err := r.UnitPrice(ctx, recipe.UpgradeItemID)
		if err != nil {
			return 0, fmt.Errorf("pricing.ProductionCost: upgrade %s: %w", recipe.UpgradeItemID, err)
		}
		cost += upgrade
	}
	return cost, nil
}

// RealisticBasePrice devuelve el precio de adquisición creíble del item:
// mercado saneado con el coste de producción como respaldo, según la
// regla de decisión de domain.RealisticPrice. Puede devolver 0 si no hay
// ningún dato; eso no es un error.
func (r *Resolver) RealisticBasePrice(ctx context.Context, itemID string) (float64, error) {
	if fixed, ok := domain.FixedPrice(itemID); ok {
		return fixed, nil
	}
	quote, err := r.source.Quote(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("pricing.RealisticBasePrice: quote %s: %w", itemID, err)
	}
	production, err := r.ProductionCost(ctx, itemID)
	if err != nil {
		return 0, err
	}
	price := domain.RealisticPrice(quote, production)
	if price == 0 {
		r.warnOnce(itemID, "no market data and no recipe")
	}
	return price, nil
}

// MaterialCostPerAction suma el coste de los materiales que consume un
// intento de mejora del item.
func (r *Resolver) MaterialCostPerAction(ctx context.Context, itemID string) (float64, error) {
	var total float64
	for _, m := range r.catalog.EnhancementMaterials(itemID) {
		price, err := r.UnitPrice(ctx, m.ItemID)
		if err != nil {
			return 0, fmt.Errorf("pricing.MaterialCostPerAction: %w", err)
		}
		total += price * m.Count
	}
	return total, nil
}

// CheapestProtection elige la protección más barata entre el propio
// item, el consumible universal y las opciones específicas del catálogo.
// Devuelve el item elegido y su precio realista; si ninguna candidata
// tiene precio positivo devuelve ("", 0).
func (r *Resolver) CheapestProtection(ctx context.Context, itemID string) (string, float64, error) {
	candidates := append([]string{itemID, domain.ProtectionMirrorID}, r.catalog.ProtectionOptions(itemID)...)

	bestID := ""
	bestPrice := 0.0
	for _, id := range candidates {
		price, err := r.RealisticBasePrice(ctx, id)
		if err != nil {
			return "", 0, fmt.Errorf("pricing.CheapestProtection: %w", err)
		}
		if price <= 0 {
			continue
		}
		if bestID == "" || price < bestPrice {
			bestID, bestPrice = id, price
		}
	}
	return bestID, bestPrice, nil
}

// warnOnce registra un aviso una sola vez por item y motivo. Evita que
// un sweep de catálogo repita cientos de veces el mismo item sin precio.
func (r *Resolver) warnOnce(itemID, reason string) {
	key := itemID + "|" + reason
	r.mu.Lock()
	_, seen := r.warned[key]
	if !seen {
		r.warned[key] = struct{}{}
	}
	r.mu.Unlock()
	if !seen {
		r.logger.Warn("unpriced item", "item", itemID, "reason", reason)
	}
}

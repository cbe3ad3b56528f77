package ports

import "github.com/ncastellan/enhancer/internal/domain"

// Catalog expone los datos estáticos de juego: items, recetas,
// materiales de mejora y opciones de protección. El catálogo se carga
// una vez y no cambia, por eso sus métodos no llevan contexto.
type Catalog interface {
	// Item devuelve la ficha del item y si existe.
	Item(itemID string) (domain.CatalogItem, bool)

	// Recipe devuelve la receta cuya primera salida es el item, si hay.
	Recipe(itemID string) (domain.Recipe, bool)

	// EnhancementMaterials devuelve los materiales que consume cada
	// intento de mejora del item. Una lista vacía significa que el item
	// no es mejorable.
	EnhancementMaterials(itemID string) []domain.MaterialCost

	// ProtectionOptions devuelve los items que pueden actuar como
	// protección específica para el item, sin contar el consumible
	// universal ni el propio item.
	ProtectionOptions(itemID string) []string

	// EnhanceableItems lista los IDs de todos los items mejorables.
	EnhanceableItems() []string
}

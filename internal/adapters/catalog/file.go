package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ncastellan/enhancer/internal/domain"
)

// FileCatalog implementa ports.Catalog sobre un archivo JSON de datos de
// juego, cargado una única vez en memoria. El catálogo es estático: no
// hay recargas ni locks.
type FileCatalog struct {
	items      map[string]domain.CatalogItem
	recipes    map[string]domain.Recipe
	materials  map[string][]domain.MaterialCost
	protection map[string][]string
}

// NewFileCatalog carga el catálogo desde la ruta dada.
func NewFileCatalog(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.NewFileCatalog: read %q: %w", path, err)
	}

	var raw gameData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog.NewFileCatalog: parse %q: %w", path, err)
	}

	c := &FileCatalog{
		items:      make(map[string]domain.CatalogItem, len(raw.Items)),
		recipes:    make(map[string]domain.Recipe, len(raw.Recipes)),
		materials:  make(map[string][]domain.MaterialCost),
		protection: make(map[string][]string),
	}
	c.mapItems(raw.Items)
	c.mapRecipes(raw.Recipes)
	return c, nil
}

// mapItems convierte los itemEntry raw, descartando entradas sin ID.
func (c *FileCatalog) mapItems(raw []itemEntry) {
	for _, it := range raw {
		if it.ID == "" {
			continue
		}
		c.items[it.ID] = domain.CatalogItem{
			ID:    it.ID,
			Name:  it.Name,
			Level: it.ItemLevel,
		}
		if mats := mapCounts(it.EnhancementMaterials); len(mats) > 0 {
			c.materials[it.ID] = mats
		}
		if len(it.ProtectionItems) > 0 {
			c.protection[it.ID] = append([]string(nil), it.ProtectionItems...)
		}
	}
}

// mapRecipes indexa cada receta por su primera salida. Si dos recetas
// producen el mismo item gana la primera del archivo.
func (c *FileCatalog) mapRecipes(raw []recipeEntry) {
	for _, r := range raw {
		if len(r.Outputs) == 0 || r.Outputs[0].ItemID == "" {
			continue
		}
		out := r.Outputs[0]
		if _, ok := c.recipes[out.ItemID]; ok {
			continue
		}
		count := out.Count
		if count <= 0 {
			count = 1
		}
		c.recipes[out.ItemID] = domain.Recipe{
			Inputs:        mapCounts(r.Inputs),
			OutputCount:   count,
			UpgradeItemID: r.UpgradeItemID,
		}
	}
}

// mapCounts convierte entries raw a domain.MaterialCost, descartando
// entradas sin ID o con cantidad no positiva.
func mapCounts(raw []countEntry) []domain.MaterialCost {
	out := make([]domain.MaterialCost, 0, len(raw))
	for _, e := range raw {
		if e.ItemID == "" || e.Count <= 0 {
			continue
		}
		out = append(out, domain.MaterialCost{ItemID: e.ItemID, Count: e.Count})
	}
	return out
}

// Item devuelve la ficha del item y si existe.
func (c *FileCatalog) Item(itemID string) (domain.CatalogItem, bool) {
	it, ok := c.items[itemID]
	return it, ok
}

// Recipe devuelve la receta cuya primera salida es el item.
func (c *FileCatalog) Recipe(itemID string) (domain.Recipe, bool) {
	r, ok := c.recipes[itemID]
	return r, ok
}

// EnhancementMaterials devuelve los materiales que consume cada intento
// de mejora del item. Nil significa que el item no es mejorable.
func (c *FileCatalog) EnhancementMaterials(itemID string) []domain.MaterialCost {
	return c.materials[itemID]
}

// ProtectionOptions devuelve las protecciones específicas del item.
func (c *FileCatalog) ProtectionOptions(itemID string) []string {
	return c.protection[itemID]
}

// EnhanceableItems lista los IDs de todos los items mejorables en orden
// estable.
func (c *FileCatalog) EnhanceableItems() []string {
	ids := make([]string, 0, len(c.materials))
	for id := range c.materials {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len devuelve cuántos items tiene el catálogo.
func (c *FileCatalog) Len() int {
	return len(c.items)
}

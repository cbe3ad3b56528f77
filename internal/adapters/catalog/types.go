package catalog

// DTOs raw del archivo de datos de juego. Solo se usan dentro de este
// paquete; la conversión a domain entities se hace en file.go.

// gameData es el documento completo del archivo de catálogo.
type gameData struct {
	Version string        `json:"version"`
	Items   []itemEntry   `json:"items"`
	Recipes []recipeEntry `json:"recipes"`
}

// itemEntry es la ficha raw de un item.
type itemEntry struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	ItemLevel            int          `json:"item_level"`
	EnhancementMaterials []countEntry `json:"enhancement_materials"`
	ProtectionItems      []string     `json:"protection_items"`
}

// recipeEntry es una acción de producción raw. La primera salida
// identifica al item producido; upgrade_item_id apunta al item base si
// la acción es una mejora.
type recipeEntry struct {
	Outputs       []countEntry `json:"outputs"`
	Inputs        []countEntry `json:"inputs"`
	UpgradeItemID string       `json:"upgrade_item_id"`
}

// countEntry es un par item/cantidad raw.
type countEntry struct {
	ItemID string  `json:"item_id"`
	Count  float64 `json:"count"`
}

package domain

import "strings"

// IDs bien conocidos del catálogo de juego.
const (
	// CoinID es la moneda base. Nunca cotiza: su precio unitario es 1.
	CoinID = "coin"

	// ProtectionMirrorID es el consumible universal de protección,
	// válido para cualquier item mejorable.
	ProtectionMirrorID = "mirror_of_protection"

	// PhilosophersMirrorID es el consumible de duplicación: fusiona dos
	// copias parcialmente mejoradas en una de nivel superior.
	PhilosophersMirrorID = "philosophers_mirror"
)

// Precios fijos fuera de mercado.
const (
	CoinPrice         = 1.0
	TraineeCharmPrice = 250000.0
)

// CatalogItem es la ficha de un item en el catálogo estático de juego.
type CatalogItem struct {
	ID    string
	Name  string
	Level int // nivel de item; se compara con el nivel de enhancing del jugador
}

// MaterialCost es una cantidad de un item consumida por una acción.
type MaterialCost struct {
	ItemID string
	Count  float64
}

// Recipe describe la acción de crafteo que produce un item: entradas,
// unidades producidas por acción y, si la acción mejora un item base,
// cuál es ese item.
type Recipe struct {
	Inputs        []MaterialCost
	OutputCount   float64
	UpgradeItemID string
}

// IsTraineeCharm reconoce la familia de amuletos de entrenamiento
// ("trainee_charm", "trainee_attack_charm", ...). No cotizan en mercado
// y tienen precio fijo.
func IsTraineeCharm(itemID string) bool {
	if itemID == "trainee_charm" {
		return true
	}
	return strings.HasPrefix(itemID, "trainee_") && strings.HasSuffix(itemID, "_charm")
}

// FixedPrice devuelve el precio fijo de un item y si lo tiene. Los items
// con precio fijo ignoran el mercado por completo.
func FixedPrice(itemID string) (float64, bool) {
	switch {
	case itemID == CoinID:
		return CoinPrice, true
	case IsTraineeCharm(itemID):
		return TraineeCharmPrice, true
	}
	return 0, false
}

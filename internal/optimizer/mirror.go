package optimizer

import "github.com/ncastellan/enhancer/internal/domain"

// ApplyMirror ejecuta la pasada del espejo de filósofo sobre la
// escalera, mutándola en sitio, y devuelve el plan resultante.
//
// Desde el nivel 3 (el primero con dos niveles no triviales por debajo)
// se compara el coste de fusionar dos copias inferiores más un espejo
// contra la vía tradicional. El primer nivel donde la fusión gana
// estrictamente fija el arranque y reescribe su entrada; a partir de ahí
// la recurrencia
//
//	ladder[L] = ladder[L-2] + ladder[L-1] + mirrorPrice
//
// se aplica sin volver a comparar, siempre sobre los valores ya
// reescritos. Un precio de espejo no positivo desactiva la pasada por
// completo.
func ApplyMirror(ladder []float64, mirrorPrice float64) domain.MirrorPlan {
	if mirrorPrice <= 0 {
		return domain.MirrorPlan{}
	}
	target := len(ladder) - 1

	start := 0
	for level := 3; level <= target; level++ {
		candidate := ladder[level-2] + ladder[level-1] + mirrorPrice
		if start == 0 {
			if candidate < ladder[level] {
				start = level
				ladder[level] = candidate
			}
			continue
		}
		ladder[level] = candidate
	}
	if start == 0 {
		return domain.MirrorPlan{}
	}

	// las entradas start-2 y start-1 quedan siempre por debajo del
	// arranque, la pasada nunca las reescribe: son los costes hoja
	return domain.MirrorConsumption(start, target, ladder[start-2], ladder[start-1], mirrorPrice)
}

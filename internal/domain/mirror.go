package domain

// Fib devuelve el término n de la sucesión de Fibonacci con la
// convención del árbol de fusión:
//
//	fib(0) = fib(1) = 1
//	fib(k) = fib(k-1) + fib(k-2)
//
// Implementación iterativa; n nunca supera MaxTargetLevel.
func Fib(n int) int {
	a, b := 1, 1
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	return a
}

// MirrorFib cuenta los espejos que consume un árbol de fusión de
// profundidad n. Cada fusión intermedia gasta su propio espejo, de ahí
// el +1 respecto a Fibonacci:
//
//	mirrorFib(0) = 1
//	mirrorFib(1) = 2
//	mirrorFib(k) = mirrorFib(k-1) + mirrorFib(k-2) + 1
func MirrorFib(n int) int {
	a, b := 1, 2
	for i := 0; i < n; i++ {
		a, b = b, a+b+1
	}
	return a
}

// ConsumedItem es una línea del plan de espejos: cuántas copias de un
// nivel se compran por la vía tradicional y a qué coste unitario.
type ConsumedItem struct {
	Level    int
	Quantity int
	CostEach float64
	Total    float64
}

// MirrorPlan describe la optimización por espejo de filósofo aplicada a
// una escalera de costes. StartLevel == 0 significa que el espejo nunca
// mejoró la vía tradicional y el plan está vacío.
type MirrorPlan struct {
	StartLevel  int
	MirrorPrice float64
	MirrorCount int
	MirrorCost  float64
	Consumed    []ConsumedItem
}

// Applied informa de si la vía del espejo llegó a activarse.
func (p MirrorPlan) Applied() bool { return p.StartLevel > 0 }

// ConsumedCost suma el coste de todas las copias consumidas.
func (p MirrorPlan) ConsumedCost() float64 {
	var total float64
	for _, c := range p.Consumed {
		total += c.Total
	}
	return total
}

// TotalCost es el coste completo del plan: copias consumidas más espejos.
func (p MirrorPlan) TotalCost() float64 {
	return p.ConsumedCost() + p.MirrorCost
}

// MirrorConsumption deriva el consumo del árbol de fusión que lleva un
// item hasta target cuando la fusión arranca en start. Con n = target -
// start, el árbol consume fib(n) copias de nivel start-2, fib(n+1)
// copias de nivel start-1 y mirrorFib(n) espejos. Los costes unitarios
// son los de la escalera en esos niveles, que la pasada del espejo nunca
// reescribe (siempre quedan por debajo de StartLevel).
func MirrorConsumption(start, target int, costLow, costHigh, mirrorPrice float64) MirrorPlan {
	n := target - start
	qtyLow := Fib(n)
	qtyHigh := Fib(n + 1)
	mirrors := MirrorFib(n)
	return MirrorPlan{
		StartLevel:  start,
		MirrorPrice: mirrorPrice,
		MirrorCount: mirrors,
		MirrorCost:  float64(mirrors) * mirrorPrice,
		Consumed: []ConsumedItem{
			{Level: start - 2, Quantity: qtyLow, CostEach: costLow, Total: float64(qtyLow) * costLow},
			{Level: start - 1, Quantity: qtyHigh, CostEach: costHigh, Total: float64(qtyHigh) * costHigh},
		},
	}
}

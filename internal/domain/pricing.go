package domain

import "math"

// Umbral de manipulación de spread.
//
// Un ask más de 1.3 veces por encima del bid (o del coste de producción
// cuando no hay bid) se trata como orden de venta abusiva y deja de ser
// un precio de adquisición creíble: alguien compraría o produciría antes
// que pagar ese ask.
const spreadAbuseRatio = 1.3

// RealisticPrice decide el precio de adquisición creíble de un item a
// partir del par de mercado y del coste de producción como respaldo.
// El par se sanea antes de decidir.
//
// Casos, en orden:
//
//	ask y bid presentes, ask/bid > 1.3  -> max(bid, producción)
//	ask y bid presentes, spread normal  -> ask
//	solo ask, inflado frente a producción (> 1.3x) -> producción
//	solo ask, en rango                  -> max(ask, producción)
//	solo bid                            -> max(bid, producción)
//	sin mercado                         -> producción (0 si tampoco hay receta)
func RealisticPrice(q Quote, production float64) float64 {
	q = q.Sanitize()
	switch {
	case q.HasAsk() && q.HasBid():
		if q.Ask/q.Bid > spreadAbuseRatio {
			return math.Max(q.Bid, production)
		}
		return q.Ask
	case q.HasAsk():
		if production > 0 && q.Ask/production > spreadAbuseRatio {
			return production
		}
		return math.Max(q.Ask, production)
	case q.HasBid():
		return math.Max(q.Bid, production)
	default:
		return production
	}
}

// AskPrice devuelve el lado de venta del par saneado, que es el precio
// al que de verdad se adquieren materiales por intento. Devuelve 0 si no
// hay ask utilizable.
func AskPrice(q Quote) float64 {
	q = q.Sanitize()
	if !q.HasAsk() {
		return 0
	}
	return q.Ask
}

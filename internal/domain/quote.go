package domain

// Quote es el par ask/bid de mercado de un item. El valor 0 en un lado
// significa "sin datos"; el snapshot nunca trae nulls.
type Quote struct {
	Ask float64
	Bid float64
}

// Sanitize corrige pares corruptos: si un lado es negativo y el otro es
// positivo, el negativo se sustituye por el positivo. Un par sin ningún
// dato queda como está.
func (q Quote) Sanitize() Quote {
	if q.Ask > 0 && q.Bid < 0 {
		q.Bid = q.Ask
	}
	if q.Bid > 0 && q.Ask < 0 {
		q.Ask = q.Bid
	}
	return q
}

// HasAsk informa de si hay lado de venta utilizable.
func (q Quote) HasAsk() bool { return q.Ask > 0 }

// HasBid informa de si hay lado de compra utilizable.
func (q Quote) HasBid() bool { return q.Bid > 0 }

// Empty informa de si el par no trae ningún dato de mercado.
func (q Quote) Empty() bool { return !q.HasAsk() && !q.HasBid() }

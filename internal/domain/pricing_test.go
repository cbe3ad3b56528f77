package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- sanitización ---

func TestSanitize_NegativeBidTakesAsk(t *testing.T) {
	q := Quote{Ask: 120, Bid: -5}.Sanitize()
	assert.Equal(t, 120.0, q.Ask)
	assert.Equal(t, 120.0, q.Bid)
}

func TestSanitize_NegativeAskTakesBid(t *testing.T) {
	q := Quote{Ask: -1, Bid: 90}.Sanitize()
	assert.Equal(t, 90.0, q.Ask)
	assert.Equal(t, 90.0, q.Bid)
}

func TestSanitize_BothNegativeStaysUnusable(t *testing.T) {
	q := Quote{Ask: -1, Bid: -1}.Sanitize()
	assert.False(t, q.HasAsk())
	assert.False(t, q.HasBid())
	assert.True(t, q.Empty())
}

// --- precio realista ---

func TestRealisticPrice_AbusiveSpreadFallsBackToBid(t *testing.T) {
	// ask/bid = 2.0 > 1.3: el ask está manipulado
	got := RealisticPrice(Quote{Ask: 200, Bid: 100}, 0)
	assert.Equal(t, 100.0, got)
}

func TestRealisticPrice_AbusiveSpreadPrefersProductionIfCheaperToMake(t *testing.T) {
	got := RealisticPrice(Quote{Ask: 200, Bid: 100}, 140)
	assert.Equal(t, 140.0, got)
}

func TestRealisticPrice_NormalSpreadUsesAsk(t *testing.T) {
	got := RealisticPrice(Quote{Ask: 110, Bid: 100}, 999)
	assert.Equal(t, 110.0, got)
}

func TestRealisticPrice_RatioExactlyAtThresholdIsNotAbusive(t *testing.T) {
	// el umbral es estricto: 130/100 = 1.3 no dispara el fallback
	got := RealisticPrice(Quote{Ask: 130, Bid: 100}, 0)
	assert.Equal(t, 130.0, got)
}

func TestRealisticPrice_OnlyAskInflatedVsProduction(t *testing.T) {
	got := RealisticPrice(Quote{Ask: 500, Bid: 0}, 100)
	assert.Equal(t, 100.0, got)
}

func TestRealisticPrice_OnlyAskInRangeTakesMax(t *testing.T) {
	got := RealisticPrice(Quote{Ask: 110, Bid: 0}, 100)
	assert.Equal(t, 110.0, got)

	got = RealisticPrice(Quote{Ask: 90, Bid: 0}, 100)
	assert.Equal(t, 100.0, got)
}

func TestRealisticPrice_OnlyAskWithoutProduction(t *testing.T) {
	got := RealisticPrice(Quote{Ask: 75, Bid: 0}, 0)
	assert.Equal(t, 75.0, got)
}

func TestRealisticPrice_OnlyBidTakesMaxWithProduction(t *testing.T) {
	got := RealisticPrice(Quote{Ask: 0, Bid: 80}, 100)
	assert.Equal(t, 100.0, got)

	got = RealisticPrice(Quote{Ask: 0, Bid: 120}, 100)
	assert.Equal(t, 120.0, got)
}

func TestRealisticPrice_NoMarketDataFallsToProduction(t *testing.T) {
	assert.Equal(t, 42.0, RealisticPrice(Quote{}, 42))
	assert.Equal(t, 0.0, RealisticPrice(Quote{}, 0))
}

func TestRealisticPrice_SanitizesBeforeDeciding(t *testing.T) {
	// bid negativo se sustituye por el ask: par completo con spread 1.0
	got := RealisticPrice(Quote{Ask: 100, Bid: -3}, 500)
	assert.Equal(t, 100.0, got)
}

func TestAskPrice_UsesSanitizedAskSide(t *testing.T) {
	assert.Equal(t, 60.0, AskPrice(Quote{Ask: 60, Bid: 55}))
	assert.Equal(t, 55.0, AskPrice(Quote{Ask: -2, Bid: 55}))
	assert.Equal(t, 0.0, AskPrice(Quote{}))
}

package market_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastellan/enhancer/internal/adapters/market"
)

const snapshot = `{
	"captured_at": 1756100000,
	"prices": {
		"iron_sword": {"ask": 1200, "bid": 1100},
		"whetstone": {"ask": 95, "bid": -1},
		"philosophers_mirror": {"ask": 35, "bid": 30}
	}
}`

// writeSnapshot escribe el snapshot con un mtime explícito para que los
// tests de recarga no dependan de la resolución del filesystem.
func writeSnapshot(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestFileSource_QuoteLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.json")
	writeSnapshot(t, path, snapshot, time.Now().Add(-time.Hour))

	src, err := market.NewFileSource(path)
	require.NoError(t, err)

	q, err := src.Quote(context.Background(), "iron_sword")
	require.NoError(t, err)
	assert.InDelta(t, 1200.0, q.Ask, 0.001)
	assert.InDelta(t, 1100.0, q.Bid, 0.001)

	// Los centinelas -1 pasan tal cual; la normalización es del dominio
	q, err = src.Quote(context.Background(), "whetstone")
	require.NoError(t, err)
	assert.InDelta(t, -1.0, q.Bid, 0.001)

	q, err = src.Quote(context.Background(), "no_such_item")
	require.NoError(t, err)
	assert.True(t, q.Empty())

	assert.Equal(t, 3, src.Len())
	assert.Equal(t, time.Unix(1756100000, 0).UTC(), src.CapturedAt())
}

func TestFileSource_FingerprintStableAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	writeSnapshot(t, pathA, snapshot, time.Now().Add(-time.Hour))
	writeSnapshot(t, pathB, snapshot, time.Now().Add(-time.Minute))

	srcA, err := market.NewFileSource(pathA)
	require.NoError(t, err)
	srcB, err := market.NewFileSource(pathB)
	require.NoError(t, err)

	fpA, err := srcA.Fingerprint(context.Background())
	require.NoError(t, err)
	fpB, err := srcB.Fingerprint(context.Background())
	require.NoError(t, err)

	assert.NotZero(t, fpA)
	assert.Equal(t, fpA, fpB)
}

func TestFileSource_FingerprintChangesWithPrices(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	moved := `{
		"captured_at": 1756100000,
		"prices": {
			"iron_sword": {"ask": 1250, "bid": 1100},
			"whetstone": {"ask": 95, "bid": -1},
			"philosophers_mirror": {"ask": 35, "bid": 30}
		}
	}`
	writeSnapshot(t, pathA, snapshot, time.Now().Add(-time.Hour))
	writeSnapshot(t, pathB, moved, time.Now().Add(-time.Hour))

	srcA, err := market.NewFileSource(pathA)
	require.NoError(t, err)
	srcB, err := market.NewFileSource(pathB)
	require.NoError(t, err)

	fpA, err := srcA.Fingerprint(context.Background())
	require.NoError(t, err)
	fpB, err := srcB.Fingerprint(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, fpA, fpB)
}

func TestFileSource_ReloadsWhenFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.json")
	t0 := time.Now().Add(-time.Hour)
	writeSnapshot(t, path, snapshot, t0)

	src, err := market.NewFileSource(path)
	require.NoError(t, err)
	fpBefore, err := src.Fingerprint(context.Background())
	require.NoError(t, err)

	fresh := `{
		"captured_at": 1756103600,
		"prices": {
			"iron_sword": {"ask": 1500, "bid": 1400}
		}
	}`
	writeSnapshot(t, path, fresh, t0.Add(time.Minute))

	fpAfter, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, fpBefore, fpAfter)

	q, err := src.Quote(context.Background(), "iron_sword")
	require.NoError(t, err)
	assert.InDelta(t, 1500.0, q.Ask, 0.001)
	assert.Equal(t, 1, src.Len())
}

func TestFileSource_BadReloadKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.json")
	t0 := time.Now().Add(-time.Hour)
	writeSnapshot(t, path, snapshot, t0)

	src, err := market.NewFileSource(path)
	require.NoError(t, err)
	fpBefore, err := src.Fingerprint(context.Background())
	require.NoError(t, err)

	writeSnapshot(t, path, `{"prices": [broken`, t0.Add(time.Minute))

	fpAfter, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fpBefore, fpAfter)

	q, err := src.Quote(context.Background(), "iron_sword")
	require.NoError(t, err)
	assert.InDelta(t, 1200.0, q.Ask, 0.001)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := market.NewFileSource(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

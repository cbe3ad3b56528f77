package market

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/ncastellan/enhancer/internal/domain"
)

// fingerprintSample acota cuántas entradas del snapshot entran al hash.
// Con muestrear una fracción estable alcanza: cualquier refresco real del
// mercado mueve muchos precios a la vez.
const fingerprintSample = 64

// snapshotDoc es el documento raw del snapshot de precios.
type snapshotDoc struct {
	CapturedAt int64                 `json:"captured_at"` // unix seconds
	Prices     map[string]quoteEntry `json:"prices"`
}

// quoteEntry es el par raw ask/bid. -1 = sin datos de mercado.
type quoteEntry struct {
	Ask float64 `json:"ask"`
	Bid float64 `json:"bid"`
}

// FileSource implementa ports.PriceSource sobre un archivo JSON de
// snapshot. Fingerprint re-chequea el mtime del archivo y recarga si
// cambió, así un snapshot fresco invalida los planes cacheados sin
// reiniciar el proceso.
type FileSource struct {
	path string

	mu          sync.RWMutex
	prices      map[string]domain.Quote
	fingerprint uint64
	capturedAt  time.Time
	modTime     time.Time
}

// NewFileSource carga el snapshot desde la ruta dada.
func NewFileSource(path string) (*FileSource, error) {
	s := &FileSource{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Quote devuelve el par del item. Un item desconocido devuelve el par
// cero, nunca un error.
func (s *FileSource) Quote(_ context.Context, itemID string) (domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prices[itemID], nil
}

// Fingerprint devuelve el hash del snapshot vigente, recargando el
// archivo primero si su mtime cambió.
func (s *FileSource) Fingerprint(_ context.Context) (uint64, error) {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint, nil
}

// CapturedAt devuelve cuándo se capturó el snapshot cargado, o cero si
// el archivo no lo declara.
func (s *FileSource) CapturedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capturedAt
}

// Len devuelve cuántos items cotizan en el snapshot.
func (s *FileSource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prices)
}

// load lee y parsea el archivo, reemplazando el estado en memoria.
func (s *FileSource) load() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("market.FileSource: stat %q: %w", s.path, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("market.FileSource: read %q: %w", s.path, err)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("market.FileSource: parse %q: %w", s.path, err)
	}

	prices := make(map[string]domain.Quote, len(doc.Prices))
	for id, q := range doc.Prices {
		if id == "" {
			continue
		}
		prices[id] = domain.Quote{Ask: q.Ask, Bid: q.Bid}
	}

	var capturedAt time.Time
	if doc.CapturedAt > 0 {
		capturedAt = time.Unix(doc.CapturedAt, 0).UTC()
	}

	s.mu.Lock()
	s.prices = prices
	s.fingerprint = computeFingerprint(prices)
	s.capturedAt = capturedAt
	s.modTime = info.ModTime()
	s.mu.Unlock()
	return nil
}

// maybeReload recarga el snapshot si el archivo cambió en disco. Los
// fallos no tumban la fuente: se sigue sirviendo el último snapshot
// bueno.
func (s *FileSource) maybeReload() {
	info, err := os.Stat(s.path)
	if err != nil {
		return
	}

	s.mu.RLock()
	unchanged := info.ModTime().Equal(s.modTime)
	s.mu.RUnlock()
	if unchanged {
		return
	}

	if err := s.load(); err != nil {
		slog.Warn("price snapshot reload failed, keeping previous", "path", s.path, "error", err)
		return
	}
	slog.Debug("price snapshot reloaded", "path", s.path, "items", s.Len())
}

// computeFingerprint hashea una muestra estable (IDs ordenados, paso
// fijo) de los pares del snapshot.
func computeFingerprint(prices map[string]domain.Quote) uint64 {
	ids := make([]string, 0, len(prices))
	for id := range prices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	step := 1
	if len(ids) > fingerprintSample {
		step = len(ids) / fingerprintSample
	}

	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(ids)))
	d.Write(buf[:])
	for i := 0; i < len(ids); i += step {
		q := prices[ids[i]]
		d.WriteString(ids[i])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(q.Ask))
		d.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(q.Bid))
		d.Write(buf[:])
	}
	return d.Sum64()
}

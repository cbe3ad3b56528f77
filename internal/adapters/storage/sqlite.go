package storage

// sqlite.go — historial de planes eficiente y sin ruido.
//
// Estrategia:
//   - `runs`: resumen ligero por barrido (planes totales, victorias del
//     espejo, mejor coste). Siempre 1 fila por barrido.
//   - `plans`: UNA fila por (item, nivel objetivo) con el desglose JSON
//     completo (UPSERT). El histórico fino no aporta: interesa el último
//     plan y el mejor coste visto.
//   - Cache en memoria: evita writes si el plan no cambió (> 5% en coste,
//     o cambio de estrategia/espejo). En un barrido con precios estables
//     casi ningún item cambia → reducción fuerte de escrituras a disco.
//   - Prune automático al arrancar: runs > 30d, plans no vistos en 14d.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ncastellan/enhancer/internal/domain"
)

const schema = `
-- Resumen ligero por barrido del catálogo
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    planned_at  DATETIME NOT NULL,
    total       INTEGER  NOT NULL DEFAULT 0,
    mirror_wins INTEGER  NOT NULL DEFAULT 0,
    best_cost   REAL     NOT NULL DEFAULT 0
);

-- Una fila por (item, nivel objetivo), sin duplicados
CREATE TABLE IF NOT EXISTS plans (
    item_id           TEXT    NOT NULL,
    target_level      INTEGER NOT NULL,
    item_name         TEXT,
    strategy          TEXT    NOT NULL,
    protect_from      INTEGER NOT NULL DEFAULT 0,
    expected_attempts REAL    NOT NULL DEFAULT 0,
    total_time        REAL    NOT NULL DEFAULT 0,
    total_cost        REAL    NOT NULL DEFAULT 0,
    mirror_applied    INTEGER NOT NULL DEFAULT 0,
    mirror_start      INTEGER NOT NULL DEFAULT 0,
    breakdown         TEXT    NOT NULL,
    run_id            TEXT    NOT NULL,
    first_seen        DATETIME NOT NULL,
    last_seen         DATETIME NOT NULL,
    best_cost         REAL    NOT NULL DEFAULT 0,
    PRIMARY KEY (item_id, target_level)
);

CREATE INDEX IF NOT EXISTS idx_runs_at    ON runs(planned_at DESC);
CREATE INDEX IF NOT EXISTS idx_plans_last ON plans(last_seen DESC);
CREATE INDEX IF NOT EXISTS idx_plans_cost ON plans(total_cost ASC);
`

const (
	retentionRuns  = 30 * 24 * time.Hour // runs: 30 días
	retentionPlans = 14 * 24 * time.Hour // plans: 14 días sin verse
	costChangePct  = 0.05                // 5% de cambio en coste → reescribir
)

// planKey identifica la fila de un plan.
type planKey struct {
	itemID string
	level  int
}

// cachedState es el snapshot del último estado guardado de un plan.
type cachedState struct {
	strategy      string
	totalCost     float64
	mirrorApplied bool
}

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db    *sql.DB
	cache map[planKey]cachedState
	mu    sync.Mutex
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema, limpia datos antiguos y precarga la cache.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{
		db:    db,
		cache: make(map[planKey]cachedState),
	}
	s.pruneOld(context.Background())
	s.warmCache(context.Background())
	return s, nil
}

// SavePlans persiste el resumen del barrido y hace upsert de los planes
// que cambiaron respecto al barrido anterior (usando caché en memoria).
func (s *SQLiteStorage) SavePlans(ctx context.Context, plans []domain.Breakdown) error {
	if len(plans) == 0 {
		return nil
	}

	now := time.Now().UTC()
	runID := uuid.NewString()

	// 1. Resumen del barrido — siempre una fila, pesa ~60 bytes
	mirrorWins, bestCost := runSummary(plans)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, planned_at, total, mirror_wins, best_cost) VALUES (?, ?, ?, ?, ?)`,
		runID, now, len(plans), mirrorWins, bestCost,
	); err != nil {
		return fmt.Errorf("storage.SavePlans: insert run: %w", err)
	}

	// 2. Upsert de los planes que cambiaron
	toWrite := s.filterChanged(plans)
	if len(toWrite) == 0 {
		return nil // nada nuevo — la gran mayoría de barridos terminan aquí
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SavePlans: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO plans
			(item_id, target_level, item_name, strategy, protect_from,
			 expected_attempts, total_time, total_cost, mirror_applied,
			 mirror_start, breakdown, run_id, first_seen, last_seen, best_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id, target_level) DO UPDATE SET
			item_name         = excluded.item_name,
			strategy          = excluded.strategy,
			protect_from      = excluded.protect_from,
			expected_attempts = excluded.expected_attempts,
			total_time        = excluded.total_time,
			total_cost        = excluded.total_cost,
			mirror_applied    = excluded.mirror_applied,
			mirror_start      = excluded.mirror_start,
			breakdown         = excluded.breakdown,
			run_id            = excluded.run_id,
			last_seen         = excluded.last_seen,
			best_cost         = MIN(best_cost, excluded.total_cost)
	`)
	if err != nil {
		return fmt.Errorf("storage.SavePlans: prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range toWrite {
		payload, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("storage.SavePlans: encode %s: %w", b.ItemID, err)
		}

		mirrorApplied := 0
		if b.Mirror.Applied() {
			mirrorApplied = 1
		}

		if _, err := stmt.ExecContext(ctx,
			b.ItemID,
			b.TargetLevel,
			b.ItemName,
			b.Optimal.Label,
			b.Optimal.ProtectFrom,
			b.Optimal.ExpectedAttempts,
			b.Optimal.TotalTime,
			b.Optimal.TotalCost,
			mirrorApplied,
			b.Mirror.StartLevel,
			string(payload),
			runID,
			now, // first_seen: ignorado en ON CONFLICT (no se sobreescribe)
			now, // last_seen
			b.Optimal.TotalCost,
		); err != nil {
			return fmt.Errorf("storage.SavePlans: upsert %s: %w", b.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SavePlans: commit: %w", err)
	}
	return nil
}

// GetHistory devuelve los planes cuyo last_seen está en el rango dado,
// del más reciente al más antiguo. Cada fila trae el desglose completo.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Breakdown, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT breakdown
		FROM plans
		WHERE last_seen BETWEEN ? AND ?
		ORDER BY last_seen DESC, total_cost ASC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var plans []domain.Breakdown
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan row: %w", err)
		}

		var b domain.Breakdown
		if err := json.Unmarshal([]byte(payload), &b); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: decode: %w", err)
		}
		plans = append(plans, b)
	}

	return plans, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// filterChanged devuelve los planes que cambiaron respecto al estado en
// caché, y actualiza la caché con el nuevo estado.
func (s *SQLiteStorage) filterChanged(plans []domain.Breakdown) []domain.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()

	var toWrite []domain.Breakdown
	for _, b := range plans {
		key := planKey{itemID: b.ItemID, level: b.TargetLevel}
		strategy := b.Optimal.Label
		mirror := b.Mirror.Applied()

		if prev, ok := s.cache[key]; ok {
			// Saltar si no cambió nada significativo
			unchanged := prev.strategy == strategy &&
				prev.mirrorApplied == mirror &&
				relChange(prev.totalCost, b.Optimal.TotalCost) < costChangePct
			if unchanged {
				continue
			}
		}

		toWrite = append(toWrite, b)
		s.cache[key] = cachedState{
			strategy:      strategy,
			totalCost:     b.Optimal.TotalCost,
			mirrorApplied: mirror,
		}
	}
	return toWrite
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoffRuns := time.Now().UTC().Add(-retentionRuns)
	cutoffPlans := time.Now().UTC().Add(-retentionPlans)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE planned_at < ?`, cutoffRuns)
	s.db.ExecContext(ctx, `DELETE FROM plans WHERE last_seen < ?`, cutoffPlans)
}

// warmCache precarga la caché desde la DB al arrancar, evitando
// escrituras redundantes en el primer barrido tras un reinicio.
func (s *SQLiteStorage) warmCache(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, target_level, strategy, total_cost, mirror_applied FROM plans`,
	)
	if err != nil {
		return
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var itemID, strategy string
		var level, mirror int
		var cost float64
		if rows.Scan(&itemID, &level, &strategy, &cost, &mirror) == nil {
			s.cache[planKey{itemID: itemID, level: level}] = cachedState{
				strategy:      strategy,
				totalCost:     cost,
				mirrorApplied: mirror == 1,
			}
		}
	}
}

// runSummary extrae las victorias del espejo y el mejor coste del barrido.
func runSummary(plans []domain.Breakdown) (mirrorWins int, best float64) {
	for _, b := range plans {
		if b.Mirror.Applied() {
			mirrorWins++
		}
		if best == 0 || b.Optimal.TotalCost < best {
			best = b.Optimal.TotalCost
		}
	}
	return
}

// relChange devuelve el cambio relativo entre dos valores (0.0 – ∞).
func relChange(old, new float64) float64 {
	if old == 0 {
		return 1.0 // forzar escritura si antes era 0
	}
	return math.Abs(new-old) / math.Abs(old)
}

package notify

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ncastellan/enhancer/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out     io.Writer
	table   bool
	verbose bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table, verbose bool) *Console {
	return &Console{out: os.Stdout, table: table, verbose: verbose}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table, verbose bool) *Console {
	return &Console{out: w, table: table, verbose: verbose}
}

// Notify imprime los planes en el modo configurado.
func (c *Console) Notify(_ context.Context, plans []domain.Breakdown) error {
	if len(plans) == 0 {
		fmt.Fprintf(c.out, "[%s] no viable plans this sweep\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printFull(plans)
	} else {
		c.printCompact(plans)
	}

	if c.verbose {
		c.printDetail(plans)
	}

	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(plans []domain.Breakdown) {
	now := time.Now().Format("15:04:05")
	mirrors := countMirrorWins(plans)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d plans | mirror:%d", now, len(plans), mirrors)

	shown := 0
	for _, b := range plans {
		if shown >= 4 {
			break
		}
		fmt.Fprintf(&sb, " | %s +%d %s (%s)",
			planName(b), b.TargetLevel, coins(b.Optimal.TotalCost), b.Optimal.Label)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla completa de planes.
func (c *Console) printFull(plans []domain.Breakdown) {
	now := time.Now().Format("15:04:05")
	mirrors := countMirrorWins(plans)

	fmt.Fprintf(c.out, "\n[%s] %d plans — mirror wins: %d\n", now, len(plans), mirrors)

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Item", "Target", "Strategy", "Attempts", "Time", "Base", "Materials", "Protect", "Total")

	for i, b := range plans {
		attempts := fmt.Sprintf("%.1f", b.Optimal.ExpectedAttempts)
		elapsed := duration(b.Optimal.TotalTime)
		if b.Mirror.Applied() {
			// La vía del espejo no tira intentos al nivel objetivo
			attempts = "-"
			elapsed = "-"
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(planName(b), 30),
			fmt.Sprintf("+%d", b.TargetLevel),
			b.Optimal.Label,
			attempts,
			elapsed,
			coins(b.Optimal.BaseCost),
			coins(b.Optimal.MaterialCost),
			coins(b.Optimal.ProtectionCost),
			coins(b.Optimal.TotalCost),
		)
	}

	table.Render()

	fmt.Fprintln(c.out, "  Attempts = expected tries at the target level | Total = expected coins")
	fmt.Fprintln(c.out, "  Strategy \"philosopher's mirror\" = fuse two lower-level copies instead of rolling")
}

// printDetail imprime el cálculo desglosado de los top 3.
func (c *Console) printDetail(plans []domain.Breakdown) {
	top := plans
	if len(top) > 3 {
		top = plans[:3]
	}

	fmt.Fprintln(c.out, "=== DETAIL — cost math, step by step ===")

	for i, b := range top {
		fmt.Fprintf(c.out, "\n--- #%d: %s +%d [%s] ---\n",
			i+1, planName(b), b.TargetLevel, b.Optimal.Label)

		fmt.Fprintf(c.out, "  1. COST LADDER (cheapest route per level):\n")
		for level, cost := range b.Ladder {
			marker := ""
			if b.Mirror.Applied() && level == b.Mirror.StartLevel {
				marker = "  <- mirror takes over"
			}
			fmt.Fprintf(c.out, "     +%-2d %10s%s\n", level, coins(cost), marker)
		}

		if b.Mirror.Applied() {
			m := b.Mirror
			fmt.Fprintf(c.out, "\n  2. FUSION PLAN (starts at +%d):\n", m.StartLevel)
			for _, consumed := range m.Consumed {
				fmt.Fprintf(c.out, "     buy %dx +%d @ %s = %s\n",
					consumed.Quantity, consumed.Level, coins(consumed.CostEach), coins(consumed.Total))
			}
			fmt.Fprintf(c.out, "     mirrors: %d @ %s = %s\n",
				m.MirrorCount, coins(m.MirrorPrice), coins(m.MirrorCost))
			fmt.Fprintf(c.out, "\n  3. TOTAL: %s (consumed %s + mirrors %s)\n",
				coins(m.TotalCost()), coins(m.ConsumedCost()), coins(m.MirrorCost))
			continue
		}

		opt := b.Optimal
		fmt.Fprintf(c.out, "\n  2. OPTIMAL STRATEGY:\n")
		fmt.Fprintf(c.out, "     attempts: %.1f expected (%s of game time)\n",
			opt.ExpectedAttempts, duration(opt.TotalTime))
		fmt.Fprintf(c.out, "     base: %s | materials: %s\n",
			coins(opt.BaseCost), coins(opt.MaterialCost))
		if opt.ProtectionItemID != "" {
			fmt.Fprintf(c.out, "     protection: %s (%.1fx %s)\n",
				coins(opt.ProtectionCost), opt.ProtectionCount, opt.ProtectionItemID)
		}

		if len(b.Strategies) > 1 {
			fmt.Fprintf(c.out, "\n  3. STRATEGIES CONSIDERED:\n")
			for _, s := range b.Strategies {
				fmt.Fprintf(c.out, "     %-18s %10s\n", s.Label, coins(s.TotalCost))
			}
		}
	}
	fmt.Fprintln(c.out)
}

// PrintHistory imprime los planes persistidos de ejecuciones anteriores.
func (c *Console) PrintHistory(plans []domain.Breakdown) {
	if len(plans) == 0 {
		fmt.Fprintln(c.out, "  No plan history in the requested window.")
		return
	}

	fmt.Fprintf(c.out, "\n%d stored plans\n", len(plans))

	table := tablewriter.NewWriter(c.out)
	table.Header("Item", "Target", "Strategy", "Total", "Planned")

	for _, b := range plans {
		table.Append(
			truncate(planName(b), 30),
			fmt.Sprintf("+%d", b.TargetLevel),
			b.Optimal.Label,
			coins(b.Optimal.TotalCost),
			b.PlannedAt.Format("01-02 15:04"),
		)
	}

	table.Render()
}

// --- helpers ---

func countMirrorWins(plans []domain.Breakdown) int {
	n := 0
	for _, b := range plans {
		if b.Mirror.Applied() {
			n++
		}
	}
	return n
}

func planName(b domain.Breakdown) string {
	if b.ItemName != "" {
		return b.ItemName
	}
	return b.ItemID
}

// coins formatea una cantidad de monedas de forma compacta.
func coins(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "-"
	case math.Abs(v) >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case math.Abs(v) >= 1e4:
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// duration formatea segundos de juego en una etiqueta corta.
func duration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds * float64(time.Second))
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

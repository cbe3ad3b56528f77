package planner

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/ncastellan/enhancer/internal/domain"
)

type planResult struct {
	itemID string
	plan   domain.Breakdown
	err    error
}

// planAll reparte los items entre un pool de workers y recoge los
// desgloses que terminan bien. Cada planificación es independiente, así
// que el pool no necesita más coordinación que los canales.
func (p *Planner) planAll(ctx context.Context, itemIDs []string) []domain.Breakdown {
	if len(itemIDs) == 0 {
		return nil
	}

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if workers > len(itemIDs) {
		workers = len(itemIDs)
	}

	workCh := make(chan string)
	resultCh := make(chan planResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range workCh {
				plan, err := p.PlanItem(ctx, id, p.cfg.Params)
				resultCh <- planResult{itemID: id, plan: plan, err: err}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, id := range itemIDs {
			select {
			case <-ctx.Done():
				return
			case workCh <- id:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var plans []domain.Breakdown
	for res := range resultCh {
		if res.err != nil {
			if errors.Is(res.err, domain.ErrNotEnhanceable) || errors.Is(res.err, domain.ErrUnknownItem) {
				slog.Debug("item skipped", "item", res.itemID, "err", res.err)
			} else {
				slog.Warn("plan failed", "item", res.itemID, "err", res.err)
			}
			continue
		}
		plans = append(plans, res.plan)
	}
	return plans
}

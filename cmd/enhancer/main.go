package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncastellan/enhancer/config"
	"github.com/ncastellan/enhancer/internal/adapters/cache"
	"github.com/ncastellan/enhancer/internal/adapters/catalog"
	"github.com/ncastellan/enhancer/internal/adapters/market"
	"github.com/ncastellan/enhancer/internal/adapters/notify"
	"github.com/ncastellan/enhancer/internal/adapters/storage"
	"github.com/ncastellan/enhancer/internal/domain"
	"github.com/ncastellan/enhancer/internal/enhancing"
	"github.com/ncastellan/enhancer/internal/optimizer"
	"github.com/ncastellan/enhancer/internal/planner"
	"github.com/ncastellan/enhancer/internal/ports"
	"github.com/ncastellan/enhancer/internal/pricing"
)

// maxSnapshotAge is how old the price snapshot can get before startup
// warns that plans will be computed against outdated prices.
const maxSnapshotAge = 6 * time.Hour

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	item := flag.String("item", "", "plan a single item and exit")
	target := flag.Int("target", 0, "target level override (1-20)")
	once := flag.Bool("once", false, "run one sweep cycle and exit")
	dryRun := flag.Bool("dry-run", false, "single cycle without persistence")
	historyDays := flag.Int("history", 0, "print plans stored in the last N days and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print the full plan table (default: compact 1-line)")
	detail := flag.Bool("detail", false, "print step-by-step cost math for the top plans")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("enhancer starting",
		"config", *configPath,
		"interval", cfg.SweepInterval(),
		"target_level", cfg.Enhance.TargetLevel,
		"cache", cfg.Cache.Backend,
		"dry_run", *dryRun,
		"once", *once,
	)

	cat, err := catalog.NewFileCatalog(cfg.Data.CatalogPath)
	if err != nil {
		slog.Error("failed to load catalog", "err", err, "path", cfg.Data.CatalogPath)
		os.Exit(1)
	}

	source, err := market.NewFileSource(cfg.Data.MarketPath)
	if err != nil {
		slog.Error("failed to load price snapshot", "err", err, "path", cfg.Data.MarketPath)
		os.Exit(1)
	}
	if captured := source.CapturedAt(); !captured.IsZero() {
		if age := time.Since(captured); age > maxSnapshotAge {
			slog.Warn("price snapshot is stale",
				"captured_at", captured,
				"age", age.Round(time.Minute),
			)
		}
	}
	slog.Info("game data loaded", "items", cat.Len(), "quotes", source.Len())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	planCache, closeCache, err := buildCache(ctx, cfg)
	if err != nil {
		slog.Error("failed to build plan cache", "err", err, "backend", cfg.Cache.Backend)
		os.Exit(1)
	}
	defer closeCache()

	var store ports.Storage
	if !*dryRun {
		s, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	notifier := notify.NewConsole(*table, *detail)

	if *historyDays > 0 {
		if store == nil {
			slog.Error("history mode needs storage; drop -dry-run")
			os.Exit(1)
		}
		runHistory(ctx, store, notifier, *historyDays)
		return
	}

	model := enhancing.NewModel()
	resolver := pricing.NewResolver(source, cat, nil)
	opt := optimizer.New(model, resolver, cat, domain.PhilosophersMirrorID, nil)

	params := enhanceParams(cfg, *target)

	plannerCfg := planner.DefaultConfig()
	plannerCfg.SweepInterval = cfg.SweepInterval()
	plannerCfg.RevalidateEvery = cfg.RevalidateEvery()
	plannerCfg.Params = params
	plannerCfg.Workers = cfg.Planner.Workers
	plannerCfg.DryRun = *dryRun || *once
	plannerCfg.Filter = planner.FilterConfig{
		MaxTotalCost:    cfg.Planner.MaxTotalCost,
		MaxCostPerLevel: cfg.Planner.MaxCostPerLevel,
		MaxHours:        cfg.Planner.MaxHours,
		OnlyMirror:      cfg.Planner.OnlyMirror,
		MaxResults:      cfg.Planner.MaxResults,
	}

	p := planner.New(plannerCfg, opt, planCache, source, cat, store, notifier)

	if *item != "" {
		runSingleItem(ctx, p, notifier, *item, params)
		return
	}

	if err := p.Run(ctx); err != nil {
		slog.Error("planner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("enhancer stopped cleanly")
}

// runSingleItem plans one item and prints it, skipping the sweep loop.
func runSingleItem(ctx context.Context, p *planner.Planner, notifier *notify.Console, itemID string, params domain.EnhanceParams) {
	b, err := p.PlanItem(ctx, itemID, params)
	if err != nil {
		slog.Error("plan failed", "item", itemID, "err", err)
		os.Exit(1)
	}

	if err := notifier.Notify(ctx, []domain.Breakdown{b}); err != nil {
		slog.Warn("notifier error", "err", err)
	}
}

// runHistory prints the plans persisted over the last N days.
func runHistory(ctx context.Context, store ports.Storage, notifier *notify.Console, days int) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	plans, err := store.GetHistory(ctx, from, to)
	if err != nil {
		slog.Error("history query failed", "err", err)
		os.Exit(1)
	}

	notifier.PrintHistory(plans)
}

// buildCache picks the plan cache backend from config. The returned
// closer is a no-op for the in-memory backend.
func buildCache(ctx context.Context, cfg *config.Config) (ports.PlanCache, func(), error) {
	if cfg.Cache.Backend == "redis" {
		r, err := cache.NewRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.CacheTTL())
		if err != nil {
			return nil, nil, err
		}
		return r, func() { r.Close() }, nil
	}
	return cache.NewMemory(cfg.Cache.Capacity), func() {}, nil
}

// enhanceParams maps the character config onto plan parameters.
func enhanceParams(cfg *config.Config, targetOverride int) domain.EnhanceParams {
	p := domain.EnhanceParams{
		EnhancingLevel: cfg.Enhance.EnhancingLevel,
		HouseLevel:     cfg.Enhance.HouseLevel,
		ToolBonus:      cfg.Enhance.ToolBonus,
		SpeedBonus:     cfg.Enhance.SpeedBonus,
		TargetLevel:    cfg.Enhance.TargetLevel,
		BlessedTea:     cfg.Enhance.BlessedTea,
		GuzzlingBonus:  cfg.Enhance.GuzzlingBonus,
	}
	if targetOverride > 0 {
		p.TargetLevel = targetOverride
	}
	return p
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

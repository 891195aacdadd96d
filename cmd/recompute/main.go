package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/config"
	"github.com/frontandrew/patrol/internal/pkg/database"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/repository/postgres"
	"github.com/frontandrew/patrol/internal/usecase/catalog"
	"github.com/frontandrew/patrol/internal/usecase/violation"
)

// Пересчет сохраненных штрафов по текущему справочнику.
// По умолчанию обрабатываются только записи без суммы, -all пересчитывает все.
func main() {
	all := flag.Bool("all", false, "recompute every stored violation, not only those without a total")
	workers := flag.Int("workers", 0, "override FINE_RECOMPUTE_WORKERS")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Fines.RecomputeWorkers = *workers
	}

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	// Справочник читается один раз за проход, кэш Redis не нужен
	catalogService := catalog.NewService(postgres.NewViolationTypeRepository(db), log)
	calculator := domain.NewFineCalculator(
		domain.ConfiguredVehicleClassifier(cfg.Fines.MotorcycleTokens, cfg.Fines.TruckTokens),
	)
	violationService := violation.NewService(postgres.NewViolationRepository(db), catalogService, calculator, violation.Config{
		RecomputeWorkers: cfg.Fines.RecomputeWorkers,
		RecomputeBatch:   cfg.Fines.RecomputeBatch,
	}, log)

	stats, err := violationService.Recompute(ctx, !*all)
	if err != nil {
		log.Error("Recompute failed", map[string]interface{}{
			"error": err.Error(),
		})
		database.Close(db)
		os.Exit(1)
	}

	fmt.Printf("scanned=%d updated=%d unchanged=%d failed=%d\n",
		stats.Scanned, stats.Updated, stats.Unchanged, stats.Failed)

	if stats.Failed > 0 {
		database.Close(db)
		os.Exit(2)
	}
}

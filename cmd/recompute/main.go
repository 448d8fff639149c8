package main

import (
	"context"
	"os"

	"github.com/courselens/backend/internal/app/repositories"
	"github.com/courselens/backend/internal/app/services"
	"github.com/courselens/backend/internal/bootstrap"
	"github.com/courselens/backend/internal/pkg/logger"
)

// Scheduler-facing entry point: rebuild every cached aggregate once and
// exit. A partial run exits zero; only setup failures are fatal so cron
// retries stay meaningful.
func main() {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to setup database")
		os.Exit(1)
	}
	defer database.Close()

	repos := repositories.NewRepositories(database)
	recompute := services.NewRecomputeService(repos.Aggregate)

	result, err := recompute.Recompute(context.Background())
	if err != nil {
		lgr.Error().Err(err).Msg("Recompute could not start")
		os.Exit(1)
	}

	lgr.Info().
		Strs("completed", result.Completed).
		Int("failedSteps", len(result.Failed)).
		Bool("partial", result.Partial).
		Msg("Aggregate recompute finished")
}

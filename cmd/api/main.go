package main

import (
	"os"

	"github.com/courselens/backend/internal/pkg/logger"
	"github.com/courselens/backend/internal/server"
)

// @title CourseLens API
// @version 1.0
// @description Aggregated course-feedback API backing the catalog browser extension

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}

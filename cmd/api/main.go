package main

import (
	"os"

	"github.com/edubridge/platform/internal/pkg/logger"
	"github.com/edubridge/platform/internal/server"
)

// @title EduBridge API
// @version 1.0
// @description API for the EduBridge platform connecting students, parents and schools

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5173
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token issued by /auth/register, /auth/login or the Google callback

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
}

package main

import (
	"fmt"
	"os"

	"idea-collab-api/internal/config"
	"idea-collab-api/internal/database"
	"idea-collab-api/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	gin.SetMode(cfg.GinMode)

	// Init database
	database.InitDB(cfg.DBPath)

	// Setup the routes (public, protected and websocket)
	ginRoutes := routes.SetupRoutes(cfg)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Msg("server starting")

	if err := ginRoutes.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

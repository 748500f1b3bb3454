package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/leadflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/leadflow-api/pkg/config"
	"github.com/jhoicas/leadflow-api/pkg/logger"
)

// Uso: go run ./cmd/migrate -cmd up|down|status
func main() {
	command := flag.String("cmd", "up", "comando goose: up, down o status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, *command); err != nil {
		log.Fatal().Err(err).Str("cmd", *command).Msg("migración")
	}
	log.Info().Str("cmd", *command).Msg("migración completada")
}

// seed da de alta un tenant con su primer admin (y opcionalmente un equipo)
// en una sola transacción.
//
// Uso: go run ./cmd/seed -tenant "Acme" -email admin@acme.io -password '...' [-team Admisiones]
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
	"github.com/jhoicas/leadflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/leadflow-api/pkg/config"
	"github.com/jhoicas/leadflow-api/pkg/logger"
)

func main() {
	tenantName := flag.String("tenant", "", "nombre del tenant")
	email := flag.String("email", "", "email del admin")
	password := flag.String("password", "", "password del admin (min 8)")
	name := flag.String("name", "", "nombre del admin")
	team := flag.String("team", "", "equipo inicial (opcional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if *tenantName == "" || *email == "" || len(*password) < 8 {
		log.Fatal().Msg("tenant, email y password (min 8) son requeridos")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de password")
	}

	now := time.Now().UTC()
	tenant := &entity.Tenant{ID: uuid.New().String(), Name: *tenantName, CreatedAt: now}
	admin := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: string(hash),
		Name:         *name,
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if admin.Name == "" {
		admin.Name = admin.Email
	}

	err = postgres.NewTxRunner(pool).RunDirectory(ctx, func(tenants repository.TenantRepository, users repository.UserRepository, teams repository.TeamRepository) error {
		if err := tenants.Create(ctx, tenant); err != nil {
			return err
		}
		if err := users.Create(ctx, admin); err != nil {
			return err
		}
		if *team == "" {
			return nil
		}
		t := &entity.Team{ID: uuid.New().String(), TenantID: tenant.ID, Name: *team, CreatedAt: now}
		if err := teams.Create(ctx, t); err != nil {
			return err
		}
		return teams.AddMember(ctx, &entity.Membership{UserID: admin.ID, TeamID: t.ID, TenantID: tenant.ID, CreatedAt: now})
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Str("tenant_id", tenant.ID).Str("admin_id", admin.ID).Msg("tenant creado")
}

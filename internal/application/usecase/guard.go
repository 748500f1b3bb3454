package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/access"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
	"github.com/jhoicas/leadflow-api/pkg/logger"
	"github.com/jhoicas/leadflow-api/pkg/metrics"
)

// Guard carga el snapshot de directorio del principal y aplica access.Decide.
// Lo comparten todos los casos de uso del Entity Store.
type Guard struct {
	teams   repository.TeamRepository
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewGuard construye el guard. metrics y log pueden ser nil.
func NewGuard(teams repository.TeamRepository, m *metrics.Metrics, log *logger.Logger) *Guard {
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{teams: teams, metrics: m, log: log.Component("access")}
}

// Snapshot devuelve el directorio de equipos relevante para p: sus membresías
// y las de sus compañeros. Un principal inválido recibe un directorio vacío.
func (g *Guard) Snapshot(ctx context.Context, p access.Principal) (access.Directory, error) {
	if !p.Valid() {
		return access.NewDirectory(nil), nil
	}
	ms, err := g.teams.TeammateMemberships(ctx, p.TenantID, p.UserID)
	if err != nil {
		return access.Directory{}, fmt.Errorf("snapshot de directorio: %w", err)
	}
	pairs := make([]access.Pair, 0, len(ms))
	for _, m := range ms {
		pairs = append(pairs, access.Pair{UserID: m.UserID, TeamID: m.TeamID})
	}
	return access.NewDirectory(pairs), nil
}

// Allow decide op sobre row y registra la denegación.
func (g *Guard) Allow(p access.Principal, dir access.Directory, op access.Operation, row access.Row) bool {
	if access.Decide(p, dir, op, row) {
		return true
	}
	g.denied(p, row.Entity(), op)
	return false
}

// AllowUpdate decide una actualización (fila previa y fila nueva).
func (g *Guard) AllowUpdate(p access.Principal, dir access.Directory, before, after access.Row) bool {
	if access.DecideUpdate(p, dir, before, after) {
		return true
	}
	g.denied(p, before.Entity(), access.OpUpdate)
	return false
}

func (g *Guard) denied(p access.Principal, entity string, op access.Operation) {
	g.metrics.Denied(entity, string(op))
	g.log.Debug().
		Str("user_id", p.UserID).
		Str("tenant_id", p.TenantID).
		Str("entity", entity).
		Str("op", string(op)).
		Msg("acceso denegado")
}

// requireValid rechaza principales mal formados antes de tocar el almacenamiento.
func requireValid(p access.Principal) error {
	if !p.Valid() {
		return domain.ErrUnauthorized
	}
	return nil
}

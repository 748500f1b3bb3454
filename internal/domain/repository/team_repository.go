package repository

import (
	"context"

	"github.com/jhoicas/leadflow-api/internal/domain/entity"
)

// TeamRepository define el puerto de persistencia para equipos y membresías.
type TeamRepository interface {
	Create(ctx context.Context, team *entity.Team) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Team, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Team, error)

	AddMember(ctx context.Context, m *entity.Membership) error
	RemoveMember(ctx context.Context, tenantID, teamID, userID string) error
	ListMemberships(ctx context.Context, tenantID, teamID string) ([]*entity.Membership, error)

	// TeammateMemberships devuelve las membresías de userID y las de todos los
	// usuarios que comparten algún equipo con él, restringidas a esos equipos.
	// Es la materia prima del snapshot de directorio por petición.
	TeammateMemberships(ctx context.Context, tenantID, userID string) ([]*entity.Membership, error)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
)

var _ repository.TeamRepository = (*TeamRepo)(nil)

// TeamRepo implementación del puerto TeamRepository sobre PostgreSQL.
type TeamRepo struct {
	q Querier
}

// NewTeamRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTeamRepository(q Querier) *TeamRepo {
	return &TeamRepo{q: q}
}

// Create persiste un equipo.
func (r *TeamRepo) Create(ctx context.Context, team *entity.Team) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO teams (id, tenant_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		team.ID, team.TenantID, team.Name, team.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

// GetByID obtiene un equipo del tenant.
func (r *TeamRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Team, error) {
	var t entity.Team
	err := r.q.QueryRow(ctx,
		`SELECT id, tenant_id, name, created_at FROM teams WHERE tenant_id = $1 AND id = $2`,
		tenantID, id).Scan(&t.ID, &t.TenantID, &t.Name, &t.CreatedAt)
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &t, nil
}

// ListByTenant lista los equipos del tenant por nombre.
func (r *TeamRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Team, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, tenant_id, name, created_at FROM teams WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()
	var list []*entity.Team
	for rows.Next() {
		var t entity.Team
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// AddMember agrega un usuario a un equipo. Idempotente.
func (r *TeamRepo) AddMember(ctx context.Context, m *entity.Membership) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, tenant_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, user_id) DO NOTHING`,
		m.TeamID, m.UserID, m.TenantID, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert team member: %w", err)
	}
	return nil
}

// RemoveMember quita un usuario de un equipo.
func (r *TeamRepo) RemoveMember(ctx context.Context, tenantID, teamID, userID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM team_members WHERE tenant_id = $1 AND team_id = $2 AND user_id = $3`,
		tenantID, teamID, userID)
	if err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	return nil
}

// ListMemberships lista las membresías de un equipo.
func (r *TeamRepo) ListMemberships(ctx context.Context, tenantID, teamID string) ([]*entity.Membership, error) {
	return r.queryMemberships(ctx, `
		SELECT user_id, team_id, tenant_id, created_at
		FROM team_members WHERE tenant_id = $1 AND team_id = $2
		ORDER BY created_at`, tenantID, teamID)
}

// TeammateMemberships auto-join de un salto: equipos de userID y quiénes más están en ellos.
func (r *TeamRepo) TeammateMemberships(ctx context.Context, tenantID, userID string) ([]*entity.Membership, error) {
	return r.queryMemberships(ctx, `
		SELECT other.user_id, other.team_id, other.tenant_id, other.created_at
		FROM team_members mine
		JOIN team_members other ON other.team_id = mine.team_id AND other.tenant_id = mine.tenant_id
		WHERE mine.tenant_id = $1 AND mine.user_id = $2`, tenantID, userID)
}

func (r *TeamRepo) queryMemberships(ctx context.Context, query string, args ...any) ([]*entity.Membership, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()
	var list []*entity.Membership
	for rows.Next() {
		var m entity.Membership
		if err := rows.Scan(&m.UserID, &m.TeamID, &m.TenantID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadflow-api/internal/application/auth"
	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/access"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
)

// DirectoryUseCase usuarios, equipos y membresías del tenant.
// Consejero: lee su propio usuario, sus equipos y sus membresías. Admin: todo.
type DirectoryUseCase struct {
	users repository.UserRepository
	teams repository.TeamRepository
	guard *Guard
	now   func() time.Time
}

// NewDirectoryUseCase construye el caso de uso.
func NewDirectoryUseCase(users repository.UserRepository, teams repository.TeamRepository, guard *Guard) *DirectoryUseCase {
	return &DirectoryUseCase{users: users, teams: teams, guard: guard, now: time.Now}
}

// ListUsers lista los usuarios visibles del tenant.
func (uc *DirectoryUseCase) ListUsers(ctx context.Context, p access.Principal, page dto.PageRequest) ([]dto.UserResponse, error) {
	if err := requireValid(p); err != nil {
		return nil, err
	}
	page.DefaultPage()
	users, err := uc.users.ListByTenant(ctx, p.TenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	rows := make([]access.UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, access.UserRow{User: u})
	}
	// Las reglas de usuario no dependen de equipos.
	out := make([]dto.UserResponse, 0, len(rows))
	for _, r := range access.FilterReadable(p, access.Directory{}, rows) {
		out = append(out, *auth.ToUserResponse(r.User))
	}
	return out, nil
}

// ListTeams lista los equipos visibles (para un consejero, los suyos).
func (uc *DirectoryUseCase) ListTeams(ctx context.Context, p access.Principal) ([]dto.TeamResponse, error) {
	if err := requireValid(p); err != nil {
		return nil, err
	}
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return nil, err
	}
	teams, err := uc.teams.ListByTenant(ctx, p.TenantID)
	if err != nil {
		return nil, err
	}
	rows := make([]access.TeamRow, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, access.TeamRow{Team: t})
	}
	out := make([]dto.TeamResponse, 0, len(rows))
	for _, r := range access.FilterReadable(p, dir, rows) {
		out = append(out, toTeamResponse(r.Team))
	}
	return out, nil
}

// CreateTeam crea un equipo (solo admin).
func (uc *DirectoryUseCase) CreateTeam(ctx context.Context, p access.Principal, in dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	if err := requireValid(p); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	team := &entity.Team{
		ID:        uuid.New().String(),
		TenantID:  p.TenantID,
		Name:      in.Name,
		CreatedAt: uc.now().UTC(),
	}
	if !uc.guard.Allow(p, access.Directory{}, access.OpInsert, access.TeamRow{Team: team}) {
		return nil, domain.ErrForbidden
	}
	if err := uc.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	out := toTeamResponse(team)
	return &out, nil
}

// ListMemberships lista las membresías visibles de un equipo visible.
func (uc *DirectoryUseCase) ListMemberships(ctx context.Context, p access.Principal, teamID string) ([]dto.MembershipResponse, error) {
	dir, err := uc.loadTeam(ctx, p, teamID, access.OpRead)
	if err != nil {
		return nil, err
	}
	ms, err := uc.teams.ListMemberships(ctx, p.TenantID, teamID)
	if err != nil {
		return nil, err
	}
	rows := make([]access.MembershipRow, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, access.MembershipRow{Membership: m})
	}
	out := make([]dto.MembershipResponse, 0, len(rows))
	for _, r := range access.FilterReadable(p, dir, rows) {
		out = append(out, dto.MembershipResponse{TeamID: r.Membership.TeamID, UserID: r.Membership.UserID, CreatedAt: r.Membership.CreatedAt})
	}
	return out, nil
}

// AddMember agrega un usuario del tenant al equipo (solo admin). Es idempotente.
func (uc *DirectoryUseCase) AddMember(ctx context.Context, p access.Principal, teamID string, in dto.AddMemberRequest) (*dto.MembershipResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	dir, err := uc.loadTeam(ctx, p, teamID, access.OpRead)
	if err != nil {
		return nil, err
	}
	m := &entity.Membership{UserID: in.UserID, TeamID: teamID, TenantID: p.TenantID, CreatedAt: uc.now().UTC()}
	if !uc.guard.Allow(p, dir, access.OpInsert, access.MembershipRow{Membership: m}) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.users.GetByID(ctx, p.TenantID, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.teams.AddMember(ctx, m); err != nil {
		return nil, err
	}
	return &dto.MembershipResponse{TeamID: m.TeamID, UserID: m.UserID, CreatedAt: m.CreatedAt}, nil
}

// RemoveMember quita a userID del equipo (solo admin).
func (uc *DirectoryUseCase) RemoveMember(ctx context.Context, p access.Principal, teamID, userID string) error {
	dir, err := uc.loadTeam(ctx, p, teamID, access.OpRead)
	if err != nil {
		return err
	}
	m := &entity.Membership{UserID: userID, TeamID: teamID, TenantID: p.TenantID}
	if !uc.guard.Allow(p, dir, access.OpDelete, access.MembershipRow{Membership: m}) {
		return domain.ErrForbidden
	}
	return uc.teams.RemoveMember(ctx, p.TenantID, teamID, userID)
}

func (uc *DirectoryUseCase) loadTeam(ctx context.Context, p access.Principal, teamID string, op access.Operation) (access.Directory, error) {
	if err := requireValid(p); err != nil {
		return access.Directory{}, err
	}
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return dir, err
	}
	team, err := uc.teams.GetByID(ctx, p.TenantID, teamID)
	if err != nil {
		return dir, err
	}
	if team == nil || !uc.guard.Allow(p, dir, op, access.TeamRow{Team: team}) {
		return dir, domain.ErrNotFound
	}
	return dir, nil
}

func toTeamResponse(t *entity.Team) dto.TeamResponse {
	return dto.TeamResponse{ID: t.ID, TenantID: t.TenantID, Name: t.Name, CreatedAt: t.CreatedAt}
}

package usecase

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/access"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
)

// memStore almacén en memoria que implementa los puertos del Entity Store.
// Replica el filtro por tenant y las cascadas que hace la DB.
type memStore struct {
	users   map[string]*entity.User
	teams   map[string]*entity.Team
	members []*entity.Membership
	leads   map[string]*entity.Lead
	apps    map[string]*entity.Application
	tasks   map[string]*entity.Task
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*entity.User{},
		teams: map[string]*entity.Team{},
		leads: map[string]*entity.Lead{},
		apps:  map[string]*entity.Application{},
		tasks: map[string]*entity.Task{},
	}
}

func (s *memStore) addUser(tenant, id, role string) {
	s.users[id] = &entity.User{ID: id, TenantID: tenant, Email: id + "@x.io", Role: role, Status: entity.UserStatusActive}
}

func (s *memStore) addTeam(tenant, id string, users ...string) {
	s.teams[id] = &entity.Team{ID: id, TenantID: tenant, Name: id}
	for _, u := range users {
		s.members = append(s.members, &entity.Membership{UserID: u, TeamID: id, TenantID: tenant})
	}
}

func (s *memStore) addLead(tenant, id, owner string) *entity.Lead {
	l := &entity.Lead{ID: id, TenantID: tenant, OwnerID: owner, Stage: entity.LeadStageNew, FirstName: id}
	s.leads[id] = l
	return l
}

func (s *memStore) addApp(tenant, id, lead string) *entity.Application {
	a := &entity.Application{ID: id, TenantID: tenant, LeadID: lead, Status: entity.ApplicationStatusDraft, Program: "MBA"}
	s.apps[id] = a
	return a
}

func (s *memStore) addTask(tenant, id, app string, assigned *string, status string, due time.Time) *entity.Task {
	t := &entity.Task{
		ID: id, TenantID: tenant, ApplicationID: app, Type: entity.TaskTypeCall, Title: "Call task",
		AssignedTo: assigned, Status: status, DueAt: due, CreatedAt: due.Add(-48 * time.Hour),
	}
	if status == entity.TaskStatusCompleted {
		c := due
		t.CompletedAt = &c
	}
	s.tasks[id] = t
	return t
}

func principal(tenant, user, role string) access.Principal {
	return access.Principal{UserID: user, TenantID: tenant, Role: role}
}

func strPtr(s string) *string { return &s }

// ─── leads ───────────────────────────────────────────────────────────────────

type memLeads struct{ s *memStore }

func (r memLeads) Create(_ context.Context, l *entity.Lead) error {
	c := *l
	r.s.leads[l.ID] = &c
	return nil
}

func (r memLeads) GetByID(_ context.Context, tenantID, id string) (*entity.Lead, error) {
	l, ok := r.s.leads[id]
	if !ok || l.TenantID != tenantID {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (r memLeads) Update(_ context.Context, l *entity.Lead) error {
	cur, ok := r.s.leads[l.ID]
	if !ok || cur.TenantID != l.TenantID {
		return domain.ErrNotFound
	}
	c := *l
	r.s.leads[l.ID] = &c
	return nil
}

// ListByTenant pagina como LeadRepo: filtros primero, luego LIMIT/OFFSET.
func (r memLeads) ListByTenant(_ context.Context, tenantID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	var out []*entity.Lead
	for _, l := range r.s.leads {
		if l.TenantID != tenantID || (f.Stage != "" && l.Stage != f.Stage) {
			continue
		}
		if f.OwnerIDs != nil && !slices.Contains(f.OwnerIDs, l.OwnerID) {
			continue
		}
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memLeads) Delete(_ context.Context, tenantID, id string) error {
	l, ok := r.s.leads[id]
	if !ok || l.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.leads, id)
	for aid, a := range r.s.apps {
		if a.LeadID == id {
			_ = memApps{r.s}.Delete(context.Background(), tenantID, aid)
		}
	}
	return nil
}

// ─── applications ────────────────────────────────────────────────────────────

type memApps struct{ s *memStore }

func (r memApps) record(a *entity.Application) *repository.ApplicationRecord {
	c := *a
	owner := ""
	if l, ok := r.s.leads[a.LeadID]; ok {
		owner = l.OwnerID
	}
	return &repository.ApplicationRecord{Application: &c, LeadOwnerID: owner}
}

func (r memApps) Create(_ context.Context, a *entity.Application) error {
	c := *a
	r.s.apps[a.ID] = &c
	return nil
}

func (r memApps) GetByID(_ context.Context, tenantID, id string) (*repository.ApplicationRecord, error) {
	a, ok := r.s.apps[id]
	if !ok || a.TenantID != tenantID {
		return nil, nil
	}
	return r.record(a), nil
}

func (r memApps) ListByLead(_ context.Context, tenantID, leadID string) ([]*repository.ApplicationRecord, error) {
	var out []*repository.ApplicationRecord
	for _, a := range r.s.apps {
		if a.TenantID == tenantID && a.LeadID == leadID {
			out = append(out, r.record(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Application.ID < out[j].Application.ID })
	return out, nil
}

func (r memApps) Update(_ context.Context, a *entity.Application) error {
	c := *a
	r.s.apps[a.ID] = &c
	return nil
}

func (r memApps) Delete(_ context.Context, tenantID, id string) error {
	delete(r.s.apps, id)
	for tid, t := range r.s.tasks {
		if t.ApplicationID == id && t.TenantID == tenantID {
			delete(r.s.tasks, tid)
		}
	}
	return nil
}

// ─── tasks ───────────────────────────────────────────────────────────────────

type memTasks struct{ s *memStore }

func (r memTasks) record(t *entity.Task) *repository.TaskRecord {
	c := *t
	owner := ""
	if a, ok := r.s.apps[t.ApplicationID]; ok {
		if l, ok := r.s.leads[a.LeadID]; ok {
			owner = l.OwnerID
		}
	}
	return &repository.TaskRecord{Task: &c, LeadOwnerID: owner}
}

func (r memTasks) sorted(keep func(*entity.Task) bool) []*repository.TaskRecord {
	var out []*repository.TaskRecord
	for _, t := range r.s.tasks {
		if keep(t) {
			out = append(out, r.record(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Task.DueAt.Before(out[j].Task.DueAt) })
	return out
}

func (r memTasks) Create(_ context.Context, t *entity.Task) error {
	c := *t
	r.s.tasks[t.ID] = &c
	return nil
}

func (r memTasks) GetByID(_ context.Context, tenantID, id string) (*repository.TaskRecord, error) {
	t, ok := r.s.tasks[id]
	if !ok || t.TenantID != tenantID {
		return nil, nil
	}
	return r.record(t), nil
}

func (r memTasks) ListOpenDueBetween(_ context.Context, tenantID string, from, to time.Time) ([]*repository.TaskRecord, error) {
	return r.sorted(func(t *entity.Task) bool {
		return t.TenantID == tenantID && t.Status != entity.TaskStatusCompleted && !t.DueAt.Before(from) && t.DueAt.Before(to)
	}), nil
}

func (r memTasks) ListOverdue(_ context.Context, tenantID string, now time.Time) ([]*repository.TaskRecord, error) {
	return r.sorted(func(t *entity.Task) bool {
		return t.TenantID == tenantID && t.IsOpen() && t.DueAt.Before(now)
	}), nil
}

func (r memTasks) ListByApplication(_ context.Context, tenantID, applicationID string) ([]*repository.TaskRecord, error) {
	return r.sorted(func(t *entity.Task) bool {
		return t.TenantID == tenantID && t.ApplicationID == applicationID
	}), nil
}

func (r memTasks) Update(_ context.Context, t *entity.Task) error {
	c := *t
	r.s.tasks[t.ID] = &c
	return nil
}

func (r memTasks) Delete(_ context.Context, tenantID, id string) error {
	delete(r.s.tasks, id)
	return nil
}

// ─── directory ───────────────────────────────────────────────────────────────

type memTeams struct{ s *memStore }

func (r memTeams) Create(_ context.Context, t *entity.Team) error {
	c := *t
	r.s.teams[t.ID] = &c
	return nil
}

func (r memTeams) GetByID(_ context.Context, tenantID, id string) (*entity.Team, error) {
	t, ok := r.s.teams[id]
	if !ok || t.TenantID != tenantID {
		return nil, nil
	}
	return t, nil
}

func (r memTeams) ListByTenant(_ context.Context, tenantID string) ([]*entity.Team, error) {
	var out []*entity.Team
	for _, t := range r.s.teams {
		if t.TenantID == tenantID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTeams) AddMember(_ context.Context, m *entity.Membership) error {
	for _, cur := range r.s.members {
		if cur.UserID == m.UserID && cur.TeamID == m.TeamID {
			return nil
		}
	}
	c := *m
	r.s.members = append(r.s.members, &c)
	return nil
}

func (r memTeams) RemoveMember(_ context.Context, tenantID, teamID, userID string) error {
	out := r.s.members[:0]
	for _, m := range r.s.members {
		if !(m.TenantID == tenantID && m.TeamID == teamID && m.UserID == userID) {
			out = append(out, m)
		}
	}
	r.s.members = out
	return nil
}

func (r memTeams) ListMemberships(_ context.Context, tenantID, teamID string) ([]*entity.Membership, error) {
	var out []*entity.Membership
	for _, m := range r.s.members {
		if m.TenantID == tenantID && m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memTeams) TeammateMemberships(_ context.Context, tenantID, userID string) ([]*entity.Membership, error) {
	mine := map[string]bool{}
	for _, m := range r.s.members {
		if m.TenantID == tenantID && m.UserID == userID {
			mine[m.TeamID] = true
		}
	}
	var out []*entity.Membership
	for _, m := range r.s.members {
		if m.TenantID == tenantID && mine[m.TeamID] {
			out = append(out, m)
		}
	}
	return out, nil
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r memUsers) GetByID(_ context.Context, tenantID, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, nil
	}
	return u, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r memUsers) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.s.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

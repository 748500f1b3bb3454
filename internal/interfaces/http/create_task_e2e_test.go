package http_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadflow-api/internal/application/tasks"
	"github.com/jhoicas/leadflow-api/internal/application/usecase"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
)

// Repos mínimos para montar el CreateTaskUseCase real detrás del router.

type oneAppRepo struct{ rec *repository.ApplicationRecord }

func (r oneAppRepo) Create(context.Context, *entity.Application) error { return nil }
func (r oneAppRepo) GetByID(_ context.Context, tenantID, id string) (*repository.ApplicationRecord, error) {
	if r.rec.Application.ID != id || r.rec.Application.TenantID != tenantID {
		return nil, nil
	}
	return r.rec, nil
}
func (r oneAppRepo) ListByLead(context.Context, string, string) ([]*repository.ApplicationRecord, error) {
	return nil, nil
}
func (r oneAppRepo) Update(context.Context, *entity.Application) error { return nil }
func (r oneAppRepo) Delete(context.Context, string, string) error { return nil }

type recordingTasks struct{ created []*entity.Task }

func (r *recordingTasks) Create(_ context.Context, t *entity.Task) error {
	r.created = append(r.created, t)
	return nil
}
func (r *recordingTasks) GetByID(context.Context, string, string) (*repository.TaskRecord, error) {
	return nil, nil
}
func (r *recordingTasks) ListOpenDueBetween(context.Context, string, time.Time, time.Time) ([]*repository.TaskRecord, error) {
	return nil, nil
}
func (r *recordingTasks) ListOverdue(context.Context, string, time.Time) ([]*repository.TaskRecord, error) {
	return nil, nil
}
func (r *recordingTasks) ListByApplication(context.Context, string, string) ([]*repository.TaskRecord, error) {
	return nil, nil
}
func (r *recordingTasks) Update(context.Context, *entity.Task) error { return nil }
func (r *recordingTasks) Delete(context.Context, string, string) error { return nil }

type noTeams struct{}

func (noTeams) Create(context.Context, *entity.Team) error { return nil }
func (noTeams) GetByID(context.Context, string, string) (*entity.Team, error) { return nil, nil }
func (noTeams) ListByTenant(context.Context, string) ([]*entity.Team, error) { return nil, nil }
func (noTeams) AddMember(context.Context, *entity.Membership) error { return nil }
func (noTeams) RemoveMember(context.Context, string, string, string) error { return nil }
func (noTeams) ListMemberships(context.Context, string, string) ([]*entity.Membership, error) {
	return nil, nil
}
func (noTeams) TeammateMemberships(context.Context, string, string) ([]*entity.Membership, error) {
	return nil, nil
}

func TestCreateTaskHTTP_TenantDelCuerpoSeIgnora(t *testing.T) {
	apps := oneAppRepo{rec: &repository.ApplicationRecord{
		Application: &entity.Application{ID: "app-1", TenantID: testTenantID, LeadID: "lead-1"},
		LeadOwnerID: testUserID,
	}}
	store := &recordingTasks{}
	uc := tasks.NewCreateTaskUseCase(store, apps, usecase.NewGuard(noTeams{}, nil, nil), nil)
	app := buildCreateTaskApp(uc)

	due := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	body := `{"application_id":"app-1","task_type":"call","due_at":"` + due + `","tenant_id":"tenant-b"}`
	resp, out := send(t, app, http.MethodPost, body, true)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	require.Len(t, store.created, 1)
	assert.Equal(t, testTenantID, store.created[0].TenantID, "el tenant sale de la application, no del cuerpo")
	assert.Equal(t, out.TaskID, store.created[0].ID)
}

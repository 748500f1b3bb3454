package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
)

func taskIDs(out *dto.TaskListResponse) []string {
	ids := make([]string, 0, len(out.Items))
	for _, t := range out.Items {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestTaskListDueOn_HoyEnLaZonaConfigurada(t *testing.T) {
	f := newFixture()
	// Hoy en UTC-5 = 2026-10-17 05:00Z .. 2026-10-18 05:00Z.
	f.store.addTask(tenantA, "late", "A-alice", nil, entity.TaskStatusPending, time.Date(2026, 10, 18, 4, 0, 0, 0, time.UTC))
	f.store.addTask(tenantA, "early", "A-alice", nil, entity.TaskStatusInProgress, time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC))
	f.store.addTask(tenantA, "done", "A-alice", nil, entity.TaskStatusCompleted, time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
	f.store.addTask(tenantA, "cancelled", "A-alice", nil, entity.TaskStatusCancelled, time.Date(2026, 10, 17, 13, 0, 0, 0, time.UTC))
	f.store.addTask(tenantA, "tomorrow", "A-alice", nil, entity.TaskStatusPending, time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC))
	f.store.addTask(tenantA, "yesterday", "A-alice", nil, entity.TaskStatusPending, time.Date(2026, 10, 17, 4, 59, 0, 0, time.UTC))
	f.store.addTask(tenantB, "foreign", "A-eve", nil, entity.TaskStatusPending, time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))

	out, err := f.tasks.ListDueOn(context.Background(), principal(tenantA, "alice", entity.RoleCounselor), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "cancelled", "late"}, taskIDs(out))
	assert.Equal(t, 3, out.Count)
	assert.True(t, out.Items[0].Overdue, "vencida antes de ahora")
	assert.False(t, out.Items[2].Overdue)
}

func TestTaskListDueOn_FechaExplicitaEInvalida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	root := principal(tenantA, "root", entity.RoleAdmin)
	f.store.addTask(tenantA, "tomorrow", "A-alice", nil, entity.TaskStatusPending, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))

	out, err := f.tasks.ListDueOn(ctx, root, "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, []string{"tomorrow"}, taskIDs(out))

	_, err = f.tasks.ListDueOn(ctx, root, "18/10/2026")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.ReasonInvalidTimestamp, verr.Reason)
}

func TestTaskListDueOn_FiltraPorVisibilidad(t *testing.T) {
	f := newFixture()
	due := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)
	f.store.addTask(tenantA, "on-alice", "A-alice", nil, entity.TaskStatusPending, due)
	f.store.addTask(tenantA, "on-carol", "A-carol", nil, entity.TaskStatusPending, due.Add(time.Minute))
	f.store.addTask(tenantA, "assigned-dave", "A-carol", strPtr("dave"), entity.TaskStatusPending, due.Add(2*time.Minute))

	out, err := f.tasks.ListDueOn(context.Background(), principal(tenantA, "dave", entity.RoleCounselor), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"assigned-dave"}, taskIDs(out))
}

func TestTaskListOverdue(t *testing.T) {
	f := newFixture()
	past := fixedNow.Add(-time.Hour)
	f.store.addTask(tenantA, "pending", "A-alice", nil, entity.TaskStatusPending, past)
	f.store.addTask(tenantA, "progress", "A-alice", nil, entity.TaskStatusInProgress, past.Add(-time.Hour))
	f.store.addTask(tenantA, "cancelled", "A-alice", nil, entity.TaskStatusCancelled, past)
	f.store.addTask(tenantA, "completed", "A-alice", nil, entity.TaskStatusCompleted, past)
	f.store.addTask(tenantA, "future", "A-alice", nil, entity.TaskStatusPending, fixedNow.Add(time.Hour))

	out, err := f.tasks.ListOverdue(context.Background(), principal(tenantA, "alice", entity.RoleCounselor))
	require.NoError(t, err)
	assert.Equal(t, []string{"progress", "pending"}, taskIDs(out))
}

func TestTaskComplete_AsignadoEIdempotente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.addTask(tenantA, "t1", "A-carol", strPtr("dave"), entity.TaskStatusPending, fixedNow.Add(time.Hour))
	dave := principal(tenantA, "dave", entity.RoleCounselor)

	out, err := f.tasks.Complete(ctx, dave, "t1")
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCompleted, out.Status)
	require.NotNil(t, out.CompletedAt)
	assert.True(t, out.CompletedAt.Equal(fixedNow))

	f.tasks.now = func() time.Time { return fixedNow.Add(time.Hour) }
	again, err := f.tasks.Complete(ctx, dave, "t1")
	require.NoError(t, err)
	assert.True(t, again.CompletedAt.Equal(fixedNow), "segunda llamada no cambia completed_at")
}

func TestTaskComplete_DueñoDelLeadSinAsignacionNoPuede(t *testing.T) {
	f := newFixture()
	f.store.addTask(tenantA, "t1", "A-carol", strPtr("dave"), entity.TaskStatusPending, fixedNow.Add(time.Hour))

	// carol ve la tarea (es dueña del lead) pero update exige assigned_to == self.
	_, err := f.tasks.Get(context.Background(), principal(tenantA, "carol", entity.RoleCounselor), "t1")
	require.NoError(t, err)
	_, err = f.tasks.Complete(context.Background(), principal(tenantA, "carol", entity.RoleCounselor), "t1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, entity.TaskStatusPending, f.store.tasks["t1"].Status)
}

func TestTaskUpdate_ReasignarFueraDeSiMismoEsRechazado(t *testing.T) {
	f := newFixture()
	f.store.addTask(tenantA, "t1", "A-carol", strPtr("dave"), entity.TaskStatusPending, fixedNow.Add(time.Hour))
	other := "0b9c3e58-7f3a-4c1d-8d47-6a1f2b3c4d5e"

	_, err := f.tasks.Update(context.Background(), principal(tenantA, "dave", entity.RoleCounselor), "t1", dto.UpdateTaskRequest{AssignedTo: &other})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	out, err := f.tasks.Update(context.Background(), principal(tenantA, "root", entity.RoleAdmin), "t1", dto.UpdateTaskRequest{AssignedTo: &other})
	require.NoError(t, err)
	assert.Equal(t, other, *out.AssignedTo)
}

func TestTaskUpdate_DueAtAnteriorACreatedAt(t *testing.T) {
	f := newFixture()
	task := f.store.addTask(tenantA, "t1", "A-alice", nil, entity.TaskStatusPending, fixedNow.Add(time.Hour))
	before := task.CreatedAt.Add(-time.Minute)

	_, err := f.tasks.Update(context.Background(), principal(tenantA, "root", entity.RoleAdmin), "t1", dto.UpdateTaskRequest{DueAt: &before})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestTaskUpdate_ReabrirLimpiaCompletedAt(t *testing.T) {
	f := newFixture()
	f.store.addTask(tenantA, "t1", "A-alice", nil, entity.TaskStatusCompleted, fixedNow.Add(-time.Hour))
	pending := entity.TaskStatusPending

	out, err := f.tasks.Update(context.Background(), principal(tenantA, "root", entity.RoleAdmin), "t1", dto.UpdateTaskRequest{Status: &pending})
	require.NoError(t, err)
	assert.Nil(t, out.CompletedAt)
	assert.True(t, out.Overdue)
}

func TestTaskListByApplication_AplicacionNoVisible(t *testing.T) {
	f := newFixture()

	_, err := f.tasks.ListByApplication(context.Background(), principal(tenantA, "dave", entity.RoleCounselor), "A-alice")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTaskDelete_SoloAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.addTask(tenantA, "t1", "A-alice", strPtr("alice"), entity.TaskStatusPending, fixedNow.Add(time.Hour))

	err := f.tasks.Delete(ctx, principal(tenantA, "alice", entity.RoleCounselor), "t1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, f.tasks.Delete(ctx, principal(tenantA, "root", entity.RoleAdmin), "t1"))
	assert.NotContains(t, f.store.tasks, "t1")
}

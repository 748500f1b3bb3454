package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/application/usecase"
	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/access"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
	"github.com/jhoicas/leadflow-api/pkg/metrics"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

// ─── fakes ───────────────────────────────────────────────────────────────────

type fakeApps struct {
	recs  map[string]*repository.ApplicationRecord
	calls int
}

func (f *fakeApps) Create(context.Context, *entity.Application) error { return nil }
func (f *fakeApps) GetByID(_ context.Context, tenantID, id string) (*repository.ApplicationRecord, error) {
	f.calls++
	r, ok := f.recs[id]
	if !ok || r.Application.TenantID != tenantID {
		return nil, nil
	}
	return r, nil
}
func (f *fakeApps) ListByLead(context.Context, string, string) ([]*repository.ApplicationRecord, error) {
	return nil, nil
}
func (f *fakeApps) Update(context.Context, *entity.Application) error { return nil }
func (f *fakeApps) Delete(context.Context, string, string) error      { return nil }

type fakeTasks struct {
	created []*entity.Task
	err     error
	ctxErr  error
}

func (f *fakeTasks) Create(ctx context.Context, t *entity.Task) error {
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, t)
	return nil
}
func (f *fakeTasks) GetByID(context.Context, string, string) (*repository.TaskRecord, error) {
	return nil, nil
}
func (f *fakeTasks) ListOpenDueBetween(context.Context, string, time.Time, time.Time) ([]*repository.TaskRecord, error) {
	return nil, nil
}
func (f *fakeTasks) ListOverdue(context.Context, string, time.Time) ([]*repository.TaskRecord, error) {
	return nil, nil
}
func (f *fakeTasks) ListByApplication(context.Context, string, string) ([]*repository.TaskRecord, error) {
	return nil, nil
}
func (f *fakeTasks) Update(context.Context, *entity.Task) error   { return nil }
func (f *fakeTasks) Delete(context.Context, string, string) error { return nil }

type fakeTeams struct{ memberships []*entity.Membership }

func (f *fakeTeams) Create(context.Context, *entity.Team) error { return nil }
func (f *fakeTeams) GetByID(context.Context, string, string) (*entity.Team, error) {
	return nil, nil
}
func (f *fakeTeams) ListByTenant(context.Context, string) ([]*entity.Team, error) { return nil, nil }
func (f *fakeTeams) AddMember(context.Context, *entity.Membership) error          { return nil }
func (f *fakeTeams) RemoveMember(context.Context, string, string, string) error   { return nil }
func (f *fakeTeams) ListMemberships(context.Context, string, string) ([]*entity.Membership, error) {
	return nil, nil
}
func (f *fakeTeams) TeammateMemberships(context.Context, string, string) ([]*entity.Membership, error) {
	return f.memberships, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []dto.TaskCreatedEvent
	err    error
	done   chan struct{}
}

func newFakeNotifier(err error) *fakeNotifier {
	return &fakeNotifier{err: err, done: make(chan struct{}, 1)}
}

func (f *fakeNotifier) TaskCreated(_ context.Context, ev dto.TaskCreatedEvent) error {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.err
}

func (f *fakeNotifier) wait(t *testing.T) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("la notificación no se disparó")
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

type harness struct {
	uc       *CreateTaskUseCase
	apps     *fakeApps
	tasks    *fakeTasks
	notifier *fakeNotifier
	metrics  *metrics.Metrics
}

// newHarness: application app-1 en tenant-a, lead de alice; alice y bob comparten equipo.
func newHarness(notifyErr error) *harness {
	apps := &fakeApps{recs: map[string]*repository.ApplicationRecord{
		"app-1": {Application: &entity.Application{ID: "app-1", TenantID: "tenant-a", LeadID: "lead-1"}, LeadOwnerID: "alice"},
	}}
	teams := &fakeTeams{memberships: []*entity.Membership{
		{UserID: "alice", TeamID: "T1", TenantID: "tenant-a"},
		{UserID: "bob", TeamID: "T1", TenantID: "tenant-a"},
	}}
	tasks := &fakeTasks{}
	n := newFakeNotifier(notifyErr)
	m := metrics.NewNop()
	uc := NewCreateTaskUseCase(tasks, apps, usecase.NewGuard(teams, m, nil),
		NewDispatcher(n, time.Second, nil, m),
		WithClock(func() time.Time { return now }), WithMetrics(m))
	return &harness{uc: uc, apps: apps, tasks: tasks, notifier: n, metrics: m}
}

var alice = access.Principal{UserID: "alice", TenantID: "tenant-a", Role: entity.RoleCounselor}

func req(appID, taskType, due any) dto.CreateTaskRequest {
	return dto.CreateTaskRequest{ApplicationID: appID, TaskType: taskType, DueAt: due}
}

func future() string { return now.Add(time.Hour).Format(time.RFC3339) }
func past() string   { return now.Add(-time.Hour).Format(time.RFC3339) }

func requireReason(t *testing.T, err error, reason, msg string) {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, reason, verr.Reason)
	assert.Equal(t, msg, verr.Message)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ─── tests ───────────────────────────────────────────────────────────────────

func TestCreate_Exitoso(t *testing.T) {
	h := newHarness(nil)

	out, err := h.uc.Create(context.Background(), alice, req("app-1", "call", future()))
	require.NoError(t, err)
	require.NotEmpty(t, out.TaskID)

	require.Len(t, h.tasks.created, 1)
	task := h.tasks.created[0]
	assert.Equal(t, out.TaskID, task.ID)
	assert.Equal(t, "tenant-a", task.TenantID)
	assert.Equal(t, "app-1", task.ApplicationID)
	assert.Equal(t, entity.TaskStatusPending, task.Status)
	assert.Equal(t, "Call task", task.Title)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.AssignedTo)
	assert.True(t, task.DueAt.Equal(now.Add(time.Hour)))
	assert.NoError(t, task.Validate())

	h.notifier.wait(t)
	h.notifier.mu.Lock()
	defer h.notifier.mu.Unlock()
	require.Len(t, h.notifier.events, 1)
	assert.Equal(t, dto.TaskCreatedEvent{TaskID: task.ID, ApplicationID: "app-1", Type: "call", DueAt: task.DueAt}, h.notifier.events[0])
}

func TestCreate_TenantDelCuerpoNoTieneEfecto(t *testing.T) {
	h := newHarness(nil)
	var in dto.CreateTaskRequest
	body := `{"application_id":"app-1","task_type":"call","due_at":"` + future() + `","tenant_id":"tenant-b"}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	_, err := h.uc.Create(context.Background(), alice, in)
	require.NoError(t, err)
	require.Len(t, h.tasks.created, 1)
	assert.Equal(t, "tenant-a", h.tasks.created[0].TenantID)
	h.notifier.wait(t)
}

func TestCreate_TituloYCamposOpcionales(t *testing.T) {
	h := newHarness(nil)
	title, desc, assigned := "Llamar a Ana", "Confirmar documentos", "bob"
	in := req("app-1", "review", now.Add(time.Hour).Format(time.RFC3339Nano))
	in.Title, in.Description, in.AssignedTo = &title, &desc, &assigned

	_, err := h.uc.Create(context.Background(), alice, in)
	require.NoError(t, err)
	task := h.tasks.created[0]
	assert.Equal(t, title, task.Title)
	assert.Equal(t, desc, *task.Description)
	assert.Equal(t, assigned, *task.AssignedTo)
}

func TestCreate_OrdenDeValidacion(t *testing.T) {
	cases := []struct {
		name   string
		in     dto.CreateTaskRequest
		reason string
		msg    string
	}{
		{"sin application_id", req(nil, "call", future()), domain.ReasonMissingField, MsgApplicationIDRequired},
		{"application_id vacío", req("", "call", future()), domain.ReasonMissingField, MsgApplicationIDRequired},
		{"application_id no string", req(42.0, "call", future()), domain.ReasonMissingField, MsgApplicationIDRequired},
		{"sin task_type", req("app-1", nil, future()), domain.ReasonMissingField, MsgTaskTypeRequired},
		{"task_type vacío", req("app-1", "", future()), domain.ReasonMissingField, MsgTaskTypeRequired},
		{"task_type fuera del enum", req("app-1", "meeting", future()), domain.ReasonInvalidEnum, "task_type must be one of: call, email, review"},
		{"task_type mayúsculas", req("app-1", "Call", future()), domain.ReasonInvalidEnum, MsgTaskTypeInvalid},
		{"task_type no string", req("app-1", true, future()), domain.ReasonInvalidEnum, MsgTaskTypeInvalid},
		{"sin due_at", req("app-1", "call", nil), domain.ReasonInvalidTimestamp, MsgDueAtRequired},
		{"due_at inválido", req("app-1", "call", "mañana"), domain.ReasonInvalidTimestamp, MsgDueAtInvalid},
		{"due_at sin zona", req("app-1", "call", "2026-10-18T10:00:00"), domain.ReasonInvalidTimestamp, MsgDueAtInvalid},
		{"due_at numérico", req("app-1", "call", 1760000000.0), domain.ReasonInvalidTimestamp, MsgDueAtInvalid},
		{"due_at pasado", req("app-1", "call", past()), domain.ReasonPastDueDate, MsgDueAtPast},
		// El primer fallo gana aunque haya otros.
		{"varios fallos", req(nil, "meeting", "x"), domain.ReasonMissingField, MsgApplicationIDRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(nil)
			_, err := h.uc.Create(context.Background(), alice, tc.in)
			requireReason(t, err, tc.reason, tc.msg)
			assert.Empty(t, h.tasks.created)
			assert.Zero(t, h.apps.calls, "la validación corre antes de cualquier lectura")
		})
	}
}

func TestCreate_DueAtIgualAAhoraEsRechazado(t *testing.T) {
	h := newHarness(nil)

	_, err := h.uc.Create(context.Background(), alice, req("app-1", "call", now.Format(time.RFC3339)))
	requireReason(t, err, domain.ReasonPastDueDate, MsgDueAtPast)

	_, err = h.uc.Create(context.Background(), alice, req("app-1", "call", now.Add(time.Millisecond).Format(time.RFC3339Nano)))
	assert.NoError(t, err)
}

func TestCreate_RelojQueAvanza_CreatedAtNoSuperaDueAt(t *testing.T) {
	h := newHarness(nil)
	var mu sync.Mutex
	tick := now
	h.uc.clock = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Millisecond)
		return tick
	}
	due := now.Add(1500 * time.Microsecond)

	_, err := h.uc.Create(context.Background(), alice, req("app-1", "call", due.Format(time.RFC3339Nano)))
	require.NoError(t, err)
	require.Len(t, h.tasks.created, 1)
	task := h.tasks.created[0]
	assert.False(t, task.DueAt.Before(task.CreatedAt), "created_at=%s due_at=%s", task.CreatedAt, task.DueAt)
	assert.True(t, task.CreatedAt.Equal(now.Add(time.Millisecond)))
	assert.NoError(t, task.Validate())
	h.notifier.wait(t)
}

func TestCreate_PasadoSeRechazaAntesDeBuscarLaApplication(t *testing.T) {
	h := newHarness(nil)

	_, err := h.uc.Create(context.Background(), alice, req("no-existe", "call", past()))
	requireReason(t, err, domain.ReasonPastDueDate, MsgDueAtPast)
	assert.Zero(t, h.apps.calls)
}

func TestCreate_ApplicationInexistente(t *testing.T) {
	h := newHarness(nil)

	_, err := h.uc.Create(context.Background(), alice, req("no-existe", "call", future()))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Empty(t, h.tasks.created)
}

func TestCreate_ApplicationDeOtroTenantOOculta(t *testing.T) {
	h := newHarness(nil)

	eve := access.Principal{UserID: "eve", TenantID: "tenant-b", Role: entity.RoleAdmin}
	_, err := h.uc.Create(context.Background(), eve, req("app-1", "call", future()))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	dave := access.Principal{UserID: "dave", TenantID: "tenant-a", Role: entity.RoleCounselor}
	_, err = h.uc.Create(context.Background(), dave, req("app-1", "call", future()))
	assert.True(t, errors.Is(err, domain.ErrNotFound), "dave no ve el lead de alice")
	assert.Empty(t, h.tasks.created)
}

func TestCreate_CompañeroPuedeCrear(t *testing.T) {
	h := newHarness(nil)
	bob := access.Principal{UserID: "bob", TenantID: "tenant-a", Role: entity.RoleCounselor}

	_, err := h.uc.Create(context.Background(), bob, req("app-1", "email", future()))
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", h.tasks.created[0].TenantID)
}

func TestCreate_ErrorDePersistenciaEsGenerico(t *testing.T) {
	h := newHarness(nil)
	h.tasks.err = errors.New(`pq: insert or update on table "tasks" violates foreign key constraint`)

	_, err := h.uc.Create(context.Background(), alice, req("app-1", "call", future()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersistence))
	assert.NotContains(t, err.Error(), "foreign key")

	select {
	case <-h.notifier.done:
		t.Fatal("no debe notificar si la inserción falla")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCreate_FalloDeNotificacionNoAfectaLaRespuesta(t *testing.T) {
	h := newHarness(errors.New("redis caído"))

	out, err := h.uc.Create(context.Background(), alice, req("app-1", "call", future()))
	require.NoError(t, err)
	assert.NotEmpty(t, out.TaskID)
	h.notifier.wait(t)
}

func TestCreate_ContextoCanceladoNoAbortaLaInsercion(t *testing.T) {
	h := newHarness(nil)
	ctx, cancel := context.WithCancel(context.Background())
	h.uc.apps = &cancelOnRead{fakeApps: h.apps, cancel: cancel}

	_, err := h.uc.Create(ctx, alice, req("app-1", "call", future()))
	require.NoError(t, err)
	assert.NoError(t, h.tasks.ctxErr)
	require.Len(t, h.tasks.created, 1)
}

// cancelOnRead simula que el cliente corta la conexión justo después del lookup.
type cancelOnRead struct {
	*fakeApps
	cancel context.CancelFunc
}

func (c *cancelOnRead) GetByID(ctx context.Context, tenantID, id string) (*repository.ApplicationRecord, error) {
	defer c.cancel()
	return c.fakeApps.GetByID(ctx, tenantID, id)
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2026-10-18T10:00:00Z", "2026-10-18T10:00:00.123Z", "2026-10-18T10:00:00-05:00"} {
		_, err := ParseTimestamp(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseTimestamp("2026-10-18")
	assert.Error(t, err)
}

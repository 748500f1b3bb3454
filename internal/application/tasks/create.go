// Package tasks implementa el comando de creación de tareas: validación en
// orden fijo, comprobación de existencia de la application, inserción y
// notificación best-effort.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/application/usecase"
	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/access"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
	"github.com/jhoicas/leadflow-api/pkg/logger"
	"github.com/jhoicas/leadflow-api/pkg/metrics"
)

// Mensajes devueltos al cliente. Son parte del contrato HTTP.
const (
	MsgApplicationIDRequired = "application_id is required"
	MsgTaskTypeRequired      = "task_type is required"
	MsgDueAtRequired         = "due_at is required"
	MsgDueAtInvalid          = "due_at must be a valid ISO 8601 timestamp"
	MsgDueAtPast             = "due_at must be in the future"
	MsgApplicationNotFound   = "application not found"
	MsgCreateFailed          = "failed to create task"
)

// MsgTaskTypeInvalid mensaje de enum inválido con los tipos en orden.
var MsgTaskTypeInvalid = "task_type must be one of: " + strings.Join(entity.TaskTypes, ", ")

// Sentinels del pipeline; envuelven los errores de dominio para el mapeo HTTP.
var (
	ErrApplicationNotFound = fmt.Errorf("%w: %s", domain.ErrNotFound, MsgApplicationNotFound)
	ErrCreateFailed        = fmt.Errorf("%w: %s", domain.ErrPersistence, MsgCreateFailed)
)

// CreateTaskResult salida exitosa.
type CreateTaskResult struct {
	TaskID string
}

// CreateTaskUseCase crea tareas ligadas a una application existente y visible.
type CreateTaskUseCase struct {
	tasks      repository.TaskRepository
	apps       repository.ApplicationRepository
	guard      *usecase.Guard
	dispatcher *Dispatcher
	clock      func() time.Time
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// Option configura el caso de uso.
type Option func(*CreateTaskUseCase)

// WithClock reemplaza el reloj (tests).
func WithClock(clock func() time.Time) Option {
	return func(uc *CreateTaskUseCase) { uc.clock = clock }
}

// WithLogger fija el logger.
func WithLogger(l *logger.Logger) Option {
	return func(uc *CreateTaskUseCase) { uc.log = l.Component("create_task") }
}

// WithMetrics fija los contadores.
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *CreateTaskUseCase) { uc.metrics = m }
}

// NewCreateTaskUseCase construye el caso de uso. dispatcher puede ser nil (sin notificación).
func NewCreateTaskUseCase(tasks repository.TaskRepository, apps repository.ApplicationRepository, guard *usecase.Guard, dispatcher *Dispatcher, opts ...Option) *CreateTaskUseCase {
	uc := &CreateTaskUseCase{
		tasks:      tasks,
		apps:       apps,
		guard:      guard,
		dispatcher: dispatcher,
		clock:      time.Now,
		log:        logger.Nop(),
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Create valida req, comprueba la application, inserta la tarea y dispara la
// notificación. Ningún error de notificación llega al llamador.
func (uc *CreateTaskUseCase) Create(ctx context.Context, p access.Principal, req dto.CreateTaskRequest) (*CreateTaskResult, error) {
	// Un único instante para validar due_at y fechar la fila: due_at > now = created_at.
	now := uc.clock().UTC()
	in, err := uc.validate(req, now)
	if err != nil {
		return nil, err
	}
	if !p.Valid() {
		return nil, domain.ErrUnauthorized
	}

	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		uc.log.Error().Err(err).Msg("snapshot de directorio")
		return nil, ErrCreateFailed
	}
	rec, err := uc.apps.GetByID(ctx, p.TenantID, in.applicationID)
	if err != nil {
		uc.log.Error().Err(err).Str("application_id", in.applicationID).Msg("lectura de application")
		return nil, ErrCreateFailed
	}
	if rec == nil || !uc.guard.Allow(p, dir, access.OpRead, access.ApplicationRow{Application: rec.Application, LeadOwnerID: rec.LeadOwnerID}) {
		return nil, ErrApplicationNotFound
	}

	title := entity.DefaultTaskTitle(in.taskType)
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		title = *req.Title
	}
	task := &entity.Task{
		ID:            uuid.New().String(),
		TenantID:      rec.Application.TenantID,
		ApplicationID: rec.Application.ID,
		Type:          in.taskType,
		Title:         title,
		Description:   nonEmpty(req.Description),
		AssignedTo:    nonEmpty(req.AssignedTo),
		Status:        entity.TaskStatusPending,
		DueAt:         in.dueAt.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !uc.guard.Allow(p, dir, access.OpInsert, access.TaskRow{Task: task, LeadOwnerID: rec.LeadOwnerID}) {
		return nil, ErrApplicationNotFound
	}
	if err := task.Validate(); err != nil {
		uc.log.Error().Err(err).Str("application_id", task.ApplicationID).Msg("tarea inconsistente")
		return nil, ErrCreateFailed
	}

	// Un cliente que corta la conexión no aborta una inserción ya iniciada.
	if err := uc.tasks.Create(context.WithoutCancel(ctx), task); err != nil {
		uc.log.Error().Err(err).Str("application_id", task.ApplicationID).Msg("insert de tarea")
		return nil, ErrCreateFailed
	}
	if uc.metrics != nil {
		uc.metrics.TasksCreated.Inc()
	}
	uc.log.Info().
		Str("task_id", task.ID).
		Str("tenant_id", task.TenantID).
		Str("type", task.Type).
		Msg("tarea creada")

	uc.dispatcher.Dispatch(dto.TaskCreatedEvent{
		TaskID:        task.ID,
		ApplicationID: task.ApplicationID,
		Type:          task.Type,
		DueAt:         task.DueAt,
	})
	return &CreateTaskResult{TaskID: task.ID}, nil
}

type validated struct {
	applicationID string
	taskType      string
	dueAt         time.Time
}

// validate aplica las reglas en orden; la primera que falla gana.
func (uc *CreateTaskUseCase) validate(req dto.CreateTaskRequest, now time.Time) (validated, error) {
	var out validated

	appID, ok := req.ApplicationID.(string)
	if !ok || strings.TrimSpace(appID) == "" {
		return out, domain.NewValidationError(domain.ReasonMissingField, "application_id", MsgApplicationIDRequired)
	}
	out.applicationID = appID

	if req.TaskType == nil {
		return out, domain.NewValidationError(domain.ReasonMissingField, "task_type", MsgTaskTypeRequired)
	}
	taskType, ok := req.TaskType.(string)
	if ok && taskType == "" {
		return out, domain.NewValidationError(domain.ReasonMissingField, "task_type", MsgTaskTypeRequired)
	}
	if !ok || !entity.IsValidTaskType(taskType) {
		return out, domain.NewValidationError(domain.ReasonInvalidEnum, "task_type", MsgTaskTypeInvalid)
	}
	out.taskType = taskType

	rawDue, ok := req.DueAt.(string)
	if req.DueAt == nil || (ok && rawDue == "") {
		return out, domain.NewValidationError(domain.ReasonInvalidTimestamp, "due_at", MsgDueAtRequired)
	}
	if !ok {
		return out, domain.NewValidationError(domain.ReasonInvalidTimestamp, "due_at", MsgDueAtInvalid)
	}
	dueAt, err := ParseTimestamp(rawDue)
	if err != nil {
		return out, domain.NewValidationError(domain.ReasonInvalidTimestamp, "due_at", MsgDueAtInvalid)
	}
	if !dueAt.After(now) {
		return out, domain.NewValidationError(domain.ReasonPastDueDate, "due_at", MsgDueAtPast)
	}
	out.dueAt = dueAt
	return out, nil
}

// ParseTimestamp acepta RFC 3339 con o sin fracción de segundos.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

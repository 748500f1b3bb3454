package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/access"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
)

// DateLayout formato de fecha del tablero (?date=YYYY-MM-DD).
const DateLayout = "2006-01-02"

// TaskUseCase lecturas y mutaciones de tareas existentes. La creación vive en
// el paquete tasks porque tiene su propio pipeline de validación y notificación.
type TaskUseCase struct {
	repo  repository.TaskRepository
	apps  repository.ApplicationRepository
	guard *Guard
	loc   *time.Location
	now   func() time.Time
}

// NewTaskUseCase construye el caso de uso. loc define qué es "hoy" (UTC si nil).
func NewTaskUseCase(repo repository.TaskRepository, apps repository.ApplicationRepository, guard *Guard, loc *time.Location) *TaskUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskUseCase{repo: repo, apps: apps, guard: guard, loc: loc, now: time.Now}
}

// Get devuelve la tarea si es visible.
func (uc *TaskUseCase) Get(ctx context.Context, p access.Principal, id string) (*dto.TaskResponse, error) {
	rec, _, err := uc.load(ctx, p, id, access.OpRead)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(rec.Task), nil
}

// ListDueOn lista las tareas no completadas que vencen el día date (YYYY-MM-DD,
// vacío = hoy) en la zona configurada, ordenadas por due_at ascendente.
func (uc *TaskUseCase) ListDueOn(ctx context.Context, p access.Principal, date string) (*dto.TaskListResponse, error) {
	if err := requireValid(p); err != nil {
		return nil, err
	}
	day, err := uc.day(date)
	if err != nil {
		return nil, err
	}
	recs, err := uc.repo.ListOpenDueBetween(ctx, p.TenantID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return uc.visible(ctx, p, recs)
}

// ListOverdue lista las tareas pending/in_progress con due_at anterior a ahora.
func (uc *TaskUseCase) ListOverdue(ctx context.Context, p access.Principal) (*dto.TaskListResponse, error) {
	if err := requireValid(p); err != nil {
		return nil, err
	}
	recs, err := uc.repo.ListOverdue(ctx, p.TenantID, uc.now().UTC())
	if err != nil {
		return nil, err
	}
	return uc.visible(ctx, p, recs)
}

// ListByApplication lista las tareas visibles de una application visible.
func (uc *TaskUseCase) ListByApplication(ctx context.Context, p access.Principal, applicationID string) (*dto.TaskListResponse, error) {
	if err := requireValid(p); err != nil {
		return nil, err
	}
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return nil, err
	}
	app, err := uc.apps.GetByID(ctx, p.TenantID, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || !uc.guard.Allow(p, dir, access.OpRead, access.ApplicationRow{Application: app.Application, LeadOwnerID: app.LeadOwnerID}) {
		return nil, domain.ErrNotFound
	}
	recs, err := uc.repo.ListByApplication(ctx, p.TenantID, applicationID)
	if err != nil {
		return nil, err
	}
	return uc.filter(p, dir, recs), nil
}

// Update modifica estado, título, descripción, asignación o vencimiento.
// Un consejero solo modifica tareas asignadas a sí mismo.
func (uc *TaskUseCase) Update(ctx context.Context, p access.Principal, id string, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	rec, dir, err := uc.load(ctx, p, id, access.OpRead)
	if err != nil {
		return nil, err
	}
	updated := *rec.Task
	if in.Title != nil {
		updated.Title = *in.Title
	}
	if in.Description != nil {
		updated.Description = in.Description
	}
	if in.AssignedTo != nil {
		updated.AssignedTo = in.AssignedTo
	}
	if in.DueAt != nil {
		updated.DueAt = in.DueAt.UTC()
	}
	now := uc.now().UTC()
	if in.Status != nil && *in.Status != updated.Status {
		updated.Status = *in.Status
		if updated.Status == entity.TaskStatusCompleted {
			updated.CompletedAt = &now
		} else {
			updated.CompletedAt = nil
		}
	}
	updated.UpdatedAt = now
	if updated.DueAt.Before(updated.CreatedAt) {
		return nil, domain.NewValidationError(domain.ReasonInvalidTimestamp, "due_at", "due_at no puede ser anterior a created_at")
	}
	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !uc.allowUpdate(p, dir, rec, &updated) {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return uc.toResponse(&updated), nil
}

// Complete marca la tarea como completada. Es idempotente: una tarea ya
// completada se devuelve sin cambios.
func (uc *TaskUseCase) Complete(ctx context.Context, p access.Principal, id string) (*dto.TaskResponse, error) {
	rec, dir, err := uc.load(ctx, p, id, access.OpRead)
	if err != nil {
		return nil, err
	}
	if rec.Task.Status == entity.TaskStatusCompleted {
		if !uc.allowUpdate(p, dir, rec, rec.Task) {
			return nil, domain.ErrNotFound
		}
		return uc.toResponse(rec.Task), nil
	}
	now := uc.now().UTC()
	updated := *rec.Task
	updated.Status = entity.TaskStatusCompleted
	updated.CompletedAt = &now
	updated.UpdatedAt = now
	if !uc.allowUpdate(p, dir, rec, &updated) {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return uc.toResponse(&updated), nil
}

// Delete borra la tarea (solo admin).
func (uc *TaskUseCase) Delete(ctx context.Context, p access.Principal, id string) error {
	if _, _, err := uc.load(ctx, p, id, access.OpDelete); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, p.TenantID, id)
}

func (uc *TaskUseCase) allowUpdate(p access.Principal, dir access.Directory, rec *repository.TaskRecord, after *entity.Task) bool {
	return uc.guard.AllowUpdate(p, dir,
		access.TaskRow{Task: rec.Task, LeadOwnerID: rec.LeadOwnerID},
		access.TaskRow{Task: after, LeadOwnerID: rec.LeadOwnerID})
}

func (uc *TaskUseCase) load(ctx context.Context, p access.Principal, id string, op access.Operation) (*repository.TaskRecord, access.Directory, error) {
	if err := requireValid(p); err != nil {
		return nil, access.Directory{}, err
	}
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return nil, dir, err
	}
	rec, err := uc.repo.GetByID(ctx, p.TenantID, id)
	if err != nil {
		return nil, dir, err
	}
	if rec == nil || !uc.guard.Allow(p, dir, op, access.TaskRow{Task: rec.Task, LeadOwnerID: rec.LeadOwnerID}) {
		return nil, dir, domain.ErrNotFound
	}
	return rec, dir, nil
}

func (uc *TaskUseCase) day(date string) (time.Time, error) {
	if date == "" {
		now := uc.now().In(uc.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc), nil
	}
	d, err := time.ParseInLocation(DateLayout, date, uc.loc)
	if err != nil {
		return time.Time{}, domain.NewValidationError(domain.ReasonInvalidTimestamp, "date", "date debe tener formato YYYY-MM-DD")
	}
	return d, nil
}

func (uc *TaskUseCase) visible(ctx context.Context, p access.Principal, recs []*repository.TaskRecord) (*dto.TaskListResponse, error) {
	dir, err := uc.guard.Snapshot(ctx, p)
	if err != nil {
		return nil, err
	}
	return uc.filter(p, dir, recs), nil
}

func (uc *TaskUseCase) filter(p access.Principal, dir access.Directory, recs []*repository.TaskRecord) *dto.TaskListResponse {
	rows := make([]access.TaskRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, access.TaskRow{Task: r.Task, LeadOwnerID: r.LeadOwnerID})
	}
	visible := access.FilterReadable(p, dir, rows)
	out := &dto.TaskListResponse{Items: make([]dto.TaskResponse, 0, len(visible)), Count: len(visible)}
	for _, r := range visible {
		out.Items = append(out.Items, *uc.toResponse(r.Task))
	}
	return out
}

func (uc *TaskUseCase) toResponse(t *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:            t.ID,
		TenantID:      t.TenantID,
		ApplicationID: t.ApplicationID,
		Type:          t.Type,
		Title:         t.Title,
		Description:   t.Description,
		AssignedTo:    t.AssignedTo,
		Status:        t.Status,
		DueAt:         t.DueAt,
		CompletedAt:   t.CompletedAt,
		Overdue:       t.IsOpen() && t.DueAt.Before(uc.now()),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

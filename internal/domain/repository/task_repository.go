package repository

import (
	"context"
	"time"

	"github.com/jhoicas/leadflow-api/internal/domain/entity"
)

// TaskRecord task junto al dueño del lead raíz (task → application → lead).
type TaskRecord struct {
	Task        *entity.Task
	LeadOwnerID string
}

// TaskRepository define el puerto de persistencia para Task.
// Los listados por fecha se apoyan en el índice (tenant_id, due_at, status).
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, tenantID, id string) (*TaskRecord, error)
	// ListOpenDueBetween tareas no completadas con from <= due_at < to, orden due_at ASC.
	ListOpenDueBetween(ctx context.Context, tenantID string, from, to time.Time) ([]*TaskRecord, error)
	// ListOverdue tareas pending/in_progress con due_at < now, orden due_at ASC.
	ListOverdue(ctx context.Context, tenantID string, now time.Time) ([]*TaskRecord, error)
	ListByApplication(ctx context.Context, tenantID, applicationID string) ([]*TaskRecord, error)
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, tenantID, id string) error
}

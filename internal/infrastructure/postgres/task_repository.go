package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación del puerto TaskRepository sobre PostgreSQL.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

const taskSelect = `
	SELECT t.id, t.tenant_id, t.application_id, t.type, t.title, t.description, t.assigned_to,
	       t.status, t.due_at, t.completed_at, t.created_at, t.updated_at,
	       l.owner_id
	FROM tasks t
	JOIN applications a ON a.id = t.application_id AND a.tenant_id = t.tenant_id
	JOIN leads l        ON l.id = a.lead_id        AND l.tenant_id = a.tenant_id`

// Create persiste una nueva tarea.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (id, tenant_id, application_id, type, title, description, assigned_to,
			status, due_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenantID, t.ApplicationID, t.Type, t.Title, t.Description, t.AssignedTo,
		t.Status, t.DueAt, t.CompletedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea del tenant con el dueño del lead raíz.
func (r *TaskRepo) GetByID(ctx context.Context, tenantID, id string) (*repository.TaskRecord, error) {
	rec, err := scanTask(r.q.QueryRow(ctx, taskSelect+` WHERE t.tenant_id = $1 AND t.id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return rec, nil
}

// ListOpenDueBetween tareas no completadas con due_at en [from, to), orden ascendente.
func (r *TaskRepo) ListOpenDueBetween(ctx context.Context, tenantID string, from, to time.Time) ([]*repository.TaskRecord, error) {
	return r.list(ctx, taskSelect+`
		WHERE t.tenant_id = $1 AND t.due_at >= $2 AND t.due_at < $3 AND t.status <> 'completed'
		ORDER BY t.due_at ASC`, tenantID, from, to)
}

// ListOverdue tareas abiertas (pending, in_progress) vencidas respecto a now.
func (r *TaskRepo) ListOverdue(ctx context.Context, tenantID string, now time.Time) ([]*repository.TaskRecord, error) {
	return r.list(ctx, taskSelect+`
		WHERE t.tenant_id = $1 AND t.due_at < $2 AND t.status IN ('pending', 'in_progress')
		ORDER BY t.due_at ASC`, tenantID, now)
}

// ListByApplication tareas de una application, orden ascendente por vencimiento.
func (r *TaskRepo) ListByApplication(ctx context.Context, tenantID, applicationID string) ([]*repository.TaskRecord, error) {
	return r.list(ctx, taskSelect+`
		WHERE t.tenant_id = $1 AND t.application_id = $2
		ORDER BY t.due_at ASC`, tenantID, applicationID)
}

// Update actualiza los campos mutables de una tarea.
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	query := `
		UPDATE tasks SET title = $3, description = $4, assigned_to = $5, status = $6,
			due_at = $7, completed_at = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		t.TenantID, t.ID, t.Title, t.Description, t.AssignedTo, t.Status,
		t.DueAt, t.CompletedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una tarea.
func (r *TaskRepo) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM tasks WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepo) list(ctx context.Context, query string, args ...any) ([]*repository.TaskRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var list []*repository.TaskRecord
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func scanTask(row rowScanner) (*repository.TaskRecord, error) {
	var t entity.Task
	var owner string
	err := row.Scan(&t.ID, &t.TenantID, &t.ApplicationID, &t.Type, &t.Title, &t.Description, &t.AssignedTo,
		&t.Status, &t.DueAt, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt, &owner)
	if err != nil {
		return nil, err
	}
	return &repository.TaskRecord{Task: &t, LeadOwnerID: owner}, nil
}

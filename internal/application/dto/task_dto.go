package dto

import "time"

// CreateTaskRequest cuerpo de POST /api/create-task.
// Los campos obligatorios llegan como valores JSON crudos (any) para poder
// distinguir "ausente" de "presente con tipo incorrecto". No existe campo
// tenant_id: el tenant se hereda de la application.
type CreateTaskRequest struct {
	ApplicationID any     `json:"application_id"`
	TaskType      any     `json:"task_type"`
	DueAt         any     `json:"due_at"`
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	AssignedTo    *string `json:"assigned_to,omitempty"`
}

// CreateTaskResponse sobre de respuesta del endpoint de creación.
type CreateTaskResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// TaskCreatedEvent carga publicada en el canal "task created".
type TaskCreatedEvent struct {
	TaskID        string    `json:"task_id"`
	ApplicationID string    `json:"application_id"`
	Type          string    `json:"type"`
	DueAt         time.Time `json:"due_at"`
}

// UpdateTaskRequest entrada para PATCH /api/tasks/:id.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assigned_to" validate:"omitempty,uuid"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	DueAt       *time.Time `json:"due_at"`
}

// TaskResponse salida de una tarea.
type TaskResponse struct {
	ID            string     `json:"id"`
	TenantID      string     `json:"tenant_id"`
	ApplicationID string     `json:"application_id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	AssignedTo    *string    `json:"assigned_to,omitempty"`
	Status        string     `json:"status"`
	DueAt         time.Time  `json:"due_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Overdue       bool       `json:"overdue"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TaskListResponse listado de tareas (tablero de hoy, vencidas, por application).
type TaskListResponse struct {
	Items []TaskResponse `json:"items"`
	Count int            `json:"count"`
}

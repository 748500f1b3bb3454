package entity

import (
	"fmt"
	"strings"
	"time"
)

// Tipos de tarea.
const (
	TaskTypeCall   = "call"
	TaskTypeEmail  = "email"
	TaskTypeReview = "review"
)

// Estados de tarea. pending → completed lo dispara la acción "marcar completada".
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// TaskTypes lista ordenada de tipos válidos (se usa en mensajes de error).
var TaskTypes = []string{TaskTypeCall, TaskTypeEmail, TaskTypeReview}

// Task es una acción pendiente (llamada, email, revisión) ligada a una Application.
type Task struct {
	ID            string
	TenantID      string
	ApplicationID string
	Type          string
	Title         string
	Description   *string
	AssignedTo    *string
	Status        string
	DueAt         time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsValidTaskType informa si t es un tipo de tarea conocido.
func IsValidTaskType(t string) bool {
	for _, v := range TaskTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValidTaskStatus informa si s es un estado de tarea conocido.
func IsValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// DefaultTaskTitle título por defecto: "<Tipo capitalizado> task".
func DefaultTaskTitle(taskType string) string {
	if taskType == "" {
		return "Task"
	}
	return strings.ToUpper(taskType[:1]) + taskType[1:] + " task"
}

// Validate comprueba los invariantes de fila de Task.
// due_at >= created_at siempre; completed_at presente solo si está completada.
func (t *Task) Validate() error {
	if !IsValidTaskType(t.Type) {
		return fmt.Errorf("task: tipo inválido %q", t.Type)
	}
	if !IsValidTaskStatus(t.Status) {
		return fmt.Errorf("task: estado inválido %q", t.Status)
	}
	if t.DueAt.Before(t.CreatedAt) {
		return fmt.Errorf("task: due_at anterior a created_at")
	}
	if (t.Status == TaskStatusCompleted) != (t.CompletedAt != nil) {
		return fmt.Errorf("task: completed_at inconsistente con estado %q", t.Status)
	}
	return nil
}

// IsOpen informa si la tarea sigue accionable (ni completada ni cancelada).
func (t *Task) IsOpen() bool {
	return t.Status == TaskStatusPending || t.Status == TaskStatusInProgress
}

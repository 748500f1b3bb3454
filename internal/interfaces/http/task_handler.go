package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/application/usecase"
	"github.com/jhoicas/leadflow-api/pkg/logger"
)

// TaskHandler tablero de tareas y mutaciones sobre tareas existentes.
type TaskHandler struct {
	uc  *usecase.TaskUseCase
	log *logger.Logger
}

// NewTaskHandler construye el handler.
func NewTaskHandler(uc *usecase.TaskUseCase, log *logger.Logger) *TaskHandler {
	return &TaskHandler{uc: uc, log: log}
}

// Today godoc
// @Summary      Tareas que vencen en el día (no completadas)
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        date  query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.TaskListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/tasks/today [get]
func (h *TaskHandler) Today(c *fiber.Ctx) error {
	out, err := h.uc.ListDueOn(c.UserContext(), GetPrincipal(c), c.Query("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Overdue godoc
// @Summary      Tareas vencidas
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.TaskListResponse
// @Router       /api/tasks/overdue [get]
func (h *TaskHandler) Overdue(c *fiber.Ctx) error {
	out, err := h.uc.ListOverdue(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener tarea
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tarea
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "Task ID"
// @Param        body  body  dto.UpdateTaskRequest  true  "cambios"
// @Success      200  {object}  dto.TaskResponse
// @Router       /api/tasks/{id} [patch]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Marcar tarea como completada (idempotente)
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Router       /api/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar tarea (admin)
// @Tags         tasks
// @Security     BearerAuth
// @Param        id  path  string  true  "Task ID"
// @Success      204
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

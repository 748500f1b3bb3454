package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/application/usecase"
	"github.com/jhoicas/leadflow-api/pkg/logger"
)

// ApplicationHandler maneja applications (anidadas bajo leads y por id).
type ApplicationHandler struct {
	uc    *usecase.ApplicationUseCase
	tasks *usecase.TaskUseCase
	log   *logger.Logger
}

// NewApplicationHandler construye el handler.
func NewApplicationHandler(uc *usecase.ApplicationUseCase, tasks *usecase.TaskUseCase, log *logger.Logger) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, tasks: tasks, log: log}
}

// ListByLead godoc
// @Summary      Listar applications de un lead
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Lead ID"
// @Success      200  {array}  dto.ApplicationResponse
// @Router       /api/leads/{id}/applications [get]
func (h *ApplicationHandler) ListByLead(c *fiber.Ctx) error {
	out, err := h.uc.ListByLead(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear application bajo un lead
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                        true  "Lead ID"
// @Param        body  body  dto.CreateApplicationRequest  true  "application"
// @Success      201  {object}  dto.ApplicationResponse
// @Router       /api/leads/{id}/applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateApplicationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Application ID"
// @Success      200  {object}  dto.ApplicationResponse
// @Router       /api/applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar application (dueño del lead o admin)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                        true  "Application ID"
// @Param        body  body  dto.UpdateApplicationRequest  true  "cambios"
// @Success      200  {object}  dto.ApplicationResponse
// @Router       /api/applications/{id} [put]
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateApplicationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar application (admin)
// @Tags         applications
// @Security     BearerAuth
// @Param        id  path  string  true  "Application ID"
// @Success      204
// @Router       /api/applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTasks godoc
// @Summary      Listar tareas de una application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Application ID"
// @Success      200  {object}  dto.TaskListResponse
// @Router       /api/applications/{id}/tasks [get]
func (h *ApplicationHandler) ListTasks(c *fiber.Ctx) error {
	out, err := h.tasks.ListByApplication(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

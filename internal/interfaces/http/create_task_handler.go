package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/application/tasks"
	"github.com/jhoicas/leadflow-api/internal/domain"
	"github.com/jhoicas/leadflow-api/internal/domain/access"
	"github.com/jhoicas/leadflow-api/pkg/logger"
)

// TaskCreator contrato mínimo del comando de creación; lo implementa *tasks.CreateTaskUseCase.
type TaskCreator interface {
	Create(ctx context.Context, p access.Principal, req dto.CreateTaskRequest) (*tasks.CreateTaskResult, error)
}

const (
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowMethods = "POST, OPTIONS"
)

// CreateTaskHandler endpoint POST /api/create-task. Responde siempre con el
// sobre {success, task_id?, error?, code?}.
type CreateTaskHandler struct {
	uc      TaskCreator
	origins string
	log     *logger.Logger
}

// NewCreateTaskHandler construye el handler. uc nil equivale a servidor mal configurado.
func NewCreateTaskHandler(uc TaskCreator, allowedOrigins string, log *logger.Logger) *CreateTaskHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CreateTaskHandler{uc: uc, origins: allowedOrigins, log: log.Component("create_task_http")}
}

// Preflight responde OPTIONS con 200 y las cabeceras CORS, sin tocar nada más.
func (h *CreateTaskHandler) Preflight(c *fiber.Ctx) error {
	origin := c.Get(fiber.HeaderOrigin)
	if allow := h.allowOrigin(origin); allow != "" {
		c.Set(fiber.HeaderAccessControlAllowOrigin, allow)
	}
	c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)
	c.Set(fiber.HeaderAccessControlAllowMethods, corsAllowMethods)
	return c.SendStatus(fiber.StatusOK)
}

// MethodNotAllowed cualquier método distinto de POST/OPTIONS.
func (h *CreateTaskHandler) MethodNotAllowed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAllow, corsAllowMethods)
	return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.CreateTaskResponse{Error: "Method not allowed", Code: "METHOD_NOT_ALLOWED"})
}

// Create godoc
// @Summary      Crear tarea para una application
// @Description  Valida application_id, task_type (call|email|review) y due_at (RFC 3339, futuro). El tenant se hereda de la application.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTaskRequest  true  "application_id, task_type, due_at"
// @Success      200  {object}  dto.CreateTaskResponse
// @Failure      400  {object}  dto.CreateTaskResponse
// @Failure      404  {object}  dto.CreateTaskResponse
// @Failure      405  {object}  dto.CreateTaskResponse
// @Failure      500  {object}  dto.CreateTaskResponse
// @Router       /api/create-task [post]
func (h *CreateTaskHandler) Create(c *fiber.Ctx) error {
	if h.uc == nil {
		h.log.Error().Msg("caso de uso de creación de tareas no configurado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.CreateTaskResponse{Error: "Server configuration error", Code: "CONFIG_ERROR"})
	}

	var req dto.CreateTaskRequest
	if body := c.Body(); len(strings.TrimSpace(string(body))) > 0 {
		if err := c.App().Config().JSONDecoder(body, &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.CreateTaskResponse{Error: "invalid JSON body", Code: "INVALID_BODY"})
		}
	}

	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.CreateTaskResponse{Success: true, TaskID: out.TaskID})
}

func (h *CreateTaskHandler) fail(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateTaskResponse{Error: verr.Message, Code: verr.Reason})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.CreateTaskResponse{Error: tasks.MsgApplicationNotFound, Code: "NOT_FOUND"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.CreateTaskResponse{Error: "Unauthorized", Code: "UNAUTHORIZED"})
	case errors.Is(err, domain.ErrConfig):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.CreateTaskResponse{Error: "Server configuration error", Code: "CONFIG_ERROR"})
	}
	if !errors.Is(err, domain.ErrPersistence) {
		h.log.Error().Err(err).Msg("error inesperado creando tarea")
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.CreateTaskResponse{Error: tasks.MsgCreateFailed, Code: "PERSISTENCE_ERROR"})
}

// allowOrigin devuelve el valor de Access-Control-Allow-Origin para origin.
func (h *CreateTaskHandler) allowOrigin(origin string) string {
	if h.origins == "" || h.origins == "*" {
		return "*"
	}
	for _, o := range strings.Split(h.origins, ",") {
		if strings.TrimSpace(o) == origin {
			return origin
		}
	}
	return ""
}

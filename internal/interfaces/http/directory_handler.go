package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadflow-api/internal/application/dto"
	"github.com/jhoicas/leadflow-api/internal/application/usecase"
	"github.com/jhoicas/leadflow-api/pkg/logger"
)

// DirectoryHandler usuarios, equipos y membresías.
type DirectoryHandler struct {
	uc  *usecase.DirectoryUseCase
	log *logger.Logger
}

// NewDirectoryHandler construye el handler.
func NewDirectoryHandler(uc *usecase.DirectoryUseCase, log *logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{uc: uc, log: log}
}

// ListUsers godoc
// @Summary      Listar usuarios visibles
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *DirectoryHandler) ListUsers(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListUsers(c.UserContext(), GetPrincipal(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListTeams godoc
// @Summary      Listar equipos visibles
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.TeamResponse
// @Router       /api/teams [get]
func (h *DirectoryHandler) ListTeams(c *fiber.Ctx) error {
	out, err := h.uc.ListTeams(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateTeam godoc
// @Summary      Crear equipo (admin)
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTeamRequest  true  "equipo"
// @Success      201  {object}  dto.TeamResponse
// @Router       /api/teams [post]
func (h *DirectoryHandler) CreateTeam(c *fiber.Ctx) error {
	var in dto.CreateTeamRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateTeam(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMembers godoc
// @Summary      Listar miembros de un equipo
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Team ID"
// @Success      200  {array}  dto.MembershipResponse
// @Router       /api/teams/{id}/members [get]
func (h *DirectoryHandler) ListMembers(c *fiber.Ctx) error {
	out, err := h.uc.ListMemberships(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// AddMember godoc
// @Summary      Agregar miembro (admin)
// @Tags         directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                true  "Team ID"
// @Param        body  body  dto.AddMemberRequest  true  "usuario"
// @Success      201  {object}  dto.MembershipResponse
// @Router       /api/teams/{id}/members [post]
func (h *DirectoryHandler) AddMember(c *fiber.Ctx) error {
	var in dto.AddMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddMember(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveMember godoc
// @Summary      Quitar miembro (admin)
// @Tags         directory
// @Security     BearerAuth
// @Param        id      path  string  true  "Team ID"
// @Param        userId  path  string  true  "User ID"
// @Success      204
// @Router       /api/teams/{id}/members/{userId} [delete]
func (h *DirectoryHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.uc.RemoveMember(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Params("userId")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/pkg/response"
)

type roleService interface {
	List(ctx context.Context) ([]models.Role, error)
	Get(ctx context.Context, id string) (*models.Role, error)
}

type roleAssignmentService interface {
	List(ctx context.Context) ([]models.RoleAssignmentDetail, error)
	ListByUser(ctx context.Context, userID string) ([]models.RoleAssignmentDetail, error)
	Create(ctx context.Context, req models.CreateRoleAssignmentRequest) (*models.RoleAssignment, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// RoleHandler serves roles and the user-role assignments
// ("usuarios_has_rol").
type RoleHandler struct {
	roles       roleService
	assignments roleAssignmentService
}

// NewRoleHandler constructs a RoleHandler.
func NewRoleHandler(roles roleService, assignments roleAssignmentService) *RoleHandler {
	return &RoleHandler{roles: roles, assignments: assignments}
}

// ListRoles godoc
// @Summary List roles
// @Tags Roles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roles, nil)
}

// GetRole godoc
// @Summary Get role
// @Tags Roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} response.Envelope
// @Router /roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	role, err := h.roles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, role, nil)
}

// ListAssignments godoc
// @Summary List role assignments
// @Tags Roles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /usuarios_has_rol [get]
func (h *RoleHandler) ListAssignments(c *gin.Context) {
	items, err := h.assignments.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ListUserAssignments godoc
// @Summary List role assignments of a user
// @Tags Roles
// @Produce json
// @Param usuarioId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /usuarios_has_rol/usuario/{usuarioId} [get]
func (h *RoleHandler) ListUserAssignments(c *gin.Context) {
	items, err := h.assignments.ListByUser(c.Request.Context(), c.Param("usuarioId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// CreateAssignment godoc
// @Summary Assign a role to a user
// @Tags Roles
// @Accept json
// @Produce json
// @Param payload body models.CreateRoleAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /usuarios_has_rol [post]
func (h *RoleHandler) CreateAssignment(c *gin.Context) {
	var req models.CreateRoleAssignmentRequest
	if !bindJSON(c, &req, "Datos de la asignación inválidos") {
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// DeleteAssignment godoc
// @Summary Remove a role assignment
// @Tags Roles
// @Param id path string true "Assignment ID"
// @Success 204
// @Router /usuarios_has_rol/{id} [delete]
func (h *RoleHandler) DeleteAssignment(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteUserAssignments godoc
// @Summary Remove every role assignment of a user
// @Tags Roles
// @Produce json
// @Param usuarioId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /usuarios_has_rol/usuario/{usuarioId} [delete]
func (h *RoleHandler) DeleteUserAssignments(c *gin.Context) {
	removed, err := h.assignments.DeleteByUser(c.Request.Context(), c.Param("usuarioId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"eliminados": removed}, nil)
}

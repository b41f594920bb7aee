package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/internal/service"
	"github.com/noah-isme/escuela-musica-api/pkg/response"
)

type teacherService interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error)
	ListBySpecialty(ctx context.Context, specialty string, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error)
	ListByStatus(ctx context.Context, rawStatus string, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error)
	Update(ctx context.Context, id string, req models.UpdateTeacherRequest) (*models.Teacher, error)
	UpdateStatus(ctx context.Context, id string, req models.UpdateTeacherStatusRequest) (*models.Teacher, error)
	Delete(ctx context.Context, id string) error
}

// TeacherHandler wires teacher services to HTTP routes.
type TeacherHandler struct {
	teachers teacherService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers teacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

func teacherFilter(c *gin.Context) models.TeacherFilter {
	params := parseListParams(c)
	filter := models.TeacherFilter{
		Search:    params.Search,
		UserID:    strings.TrimSpace(c.Query("usuarioId")),
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	}
	if raw := c.Query("estado"); raw != "" {
		if status, err := service.ParseTeacherStatus(raw); err == nil {
			filter.Status = &status
		}
	}
	return filter
}

// List godoc
// @Summary List teachers
// @Tags Profesores
// @Produce json
// @Param search query string false "Search by name, document or email"
// @Param usuarioId query string false "Linked user id"
// @Param estado query string false "Activo, Inactivo, Pendiente or Suspendido"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /profesores [get]
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, pagination, err := h.teachers.List(c.Request.Context(), teacherFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// ListBySpecialty godoc
// @Summary List teachers holding a specialty
// @Tags Profesores
// @Produce json
// @Param especialidad path string true "Specialty"
// @Success 200 {object} response.Envelope
// @Router /profesores/especialidad/{especialidad} [get]
func (h *TeacherHandler) ListBySpecialty(c *gin.Context) {
	teachers, pagination, err := h.teachers.ListBySpecialty(c.Request.Context(), c.Param("especialidad"), teacherFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// ListByStatus godoc
// @Summary List teachers by status
// @Tags Profesores
// @Produce json
// @Param estado path string true "Status"
// @Success 200 {object} response.Envelope
// @Router /profesores/estado/{estado} [get]
func (h *TeacherHandler) ListByStatus(c *gin.Context) {
	filter := teacherFilter(c)
	filter.Status = nil
	teachers, pagination, err := h.teachers.ListByStatus(c.Request.Context(), c.Param("estado"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Profesores
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /profesores/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.teachers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Create godoc
// @Summary Create teacher with its user account
// @Tags Profesores
// @Accept json
// @Produce json
// @Param payload body models.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /profesores [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req models.CreateTeacherRequest
	if !bindJSON(c, &req, "Datos del profesor inválidos") {
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update godoc
// @Summary Update teacher
// @Tags Profesores
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body models.UpdateTeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /profesores/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	var req models.UpdateTeacherRequest
	if !bindJSON(c, &req, "Datos del profesor inválidos") {
		return
	}
	teacher, err := h.teachers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// UpdateStatus godoc
// @Summary Change teacher status
// @Tags Profesores
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body models.UpdateTeacherStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /profesores/{id}/estado [patch]
func (h *TeacherHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateTeacherStatusRequest
	if !bindJSON(c, &req, "Estado inválido") {
		return
	}
	teacher, err := h.teachers.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Delete godoc
// @Summary Delete teacher
// @Description Rejected with associatedRecords while schedules reference the teacher.
// @Tags Profesores
// @Param id path string true "Teacher ID"
// @Success 204
// @Router /profesores/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	if err := h.teachers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

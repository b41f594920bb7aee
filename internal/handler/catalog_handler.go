package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/pkg/response"
)

type catalogService[T, R any] interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]T, *models.Pagination, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, req R) (*T, error)
	Update(ctx context.Context, id string, req R) (*T, error)
	Delete(ctx context.Context, id string) error
}

// CatalogHandler serves the simple CRUD catalogs: classrooms (/aulas),
// courses (/cursos) and enrollment types (/matriculas).
type CatalogHandler[T, R any] struct {
	svc            catalogService[T, R]
	invalidPayload string
}

// NewCatalogHandler constructs a CatalogHandler. invalidPayload is the message
// returned when the body cannot be decoded.
func NewCatalogHandler[T, R any](svc catalogService[T, R], invalidPayload string) *CatalogHandler[T, R] {
	return &CatalogHandler[T, R]{svc: svc, invalidPayload: invalidPayload}
}

func (h *CatalogHandler[T, R]) List(c *gin.Context) {
	params := parseListParams(c)
	items, pagination, err := h.svc.List(c.Request.Context(), models.CatalogFilter{
		Search:    params.Search,
		Active:    params.Active,
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

func (h *CatalogHandler[T, R]) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

func (h *CatalogHandler[T, R]) Create(c *gin.Context) {
	var req R
	if !bindJSON(c, &req, h.invalidPayload) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

func (h *CatalogHandler[T, R]) Update(c *gin.Context) {
	var req R
	if !bindJSON(c, &req, h.invalidPayload) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

func (h *CatalogHandler[T, R]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// register mounts the five CRUD routes under group.
func (h *CatalogHandler[T, R]) register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/pkg/response"
)

type beneficiaryService interface {
	List(ctx context.Context, filter models.BeneficiaryFilter) ([]models.Beneficiary, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Beneficiary, error)
	Create(ctx context.Context, req models.CreateBeneficiaryRequest) (*models.Beneficiary, error)
	Update(ctx context.Context, id string, req models.UpdateBeneficiaryRequest) (*models.Beneficiary, error)
	Delete(ctx context.Context, id string) error
}

// BeneficiaryHandler exposes beneficiaries and their clients.
type BeneficiaryHandler struct {
	beneficiaries beneficiaryService
}

func NewBeneficiaryHandler(beneficiaries beneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{beneficiaries: beneficiaries}
}

// List godoc
// @Summary List beneficiaries
// @Tags Beneficiarios
// @Produce json
// @Param search query string false "Search by name, document or email"
// @Param clienteId query string false "Client beneficiary ID"
// @Param estado query bool false "Active flag"
// @Success 200 {object} response.Envelope
// @Router /beneficiarios [get]
func (h *BeneficiaryHandler) List(c *gin.Context) {
	params := parseListParams(c)
	filter := models.BeneficiaryFilter{
		Search:    params.Search,
		ClientID:  strings.TrimSpace(c.Query("clienteId")),
		Active:    params.Active,
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	}
	items, pagination, err := h.beneficiaries.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get beneficiary
// @Tags Beneficiarios
// @Produce json
// @Param id path string true "Beneficiary ID"
// @Success 200 {object} response.Envelope
// @Router /beneficiarios/{id} [get]
func (h *BeneficiaryHandler) Get(c *gin.Context) {
	item, err := h.beneficiaries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create beneficiary
// @Description An optional cuenta block also creates the login and its role.
// @Tags Beneficiarios
// @Accept json
// @Produce json
// @Param payload body models.CreateBeneficiaryRequest true "Beneficiary payload"
// @Success 201 {object} response.Envelope
// @Router /beneficiarios [post]
func (h *BeneficiaryHandler) Create(c *gin.Context) {
	var req models.CreateBeneficiaryRequest
	if !bindJSON(c, &req, "Datos del beneficiario inválidos") {
		return
	}
	item, err := h.beneficiaries.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update beneficiary
// @Tags Beneficiarios
// @Accept json
// @Produce json
// @Param id path string true "Beneficiary ID"
// @Param payload body models.UpdateBeneficiaryRequest true "Beneficiary payload"
// @Success 200 {object} response.Envelope
// @Router /beneficiarios/{id} [put]
func (h *BeneficiaryHandler) Update(c *gin.Context) {
	var req models.UpdateBeneficiaryRequest
	if !bindJSON(c, &req, "Datos del beneficiario inválidos") {
		return
	}
	item, err := h.beneficiaries.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete beneficiary
// @Tags Beneficiarios
// @Param id path string true "Beneficiary ID"
// @Success 204
// @Router /beneficiarios/{id} [delete]
func (h *BeneficiaryHandler) Delete(c *gin.Context) {
	if err := h.beneficiaries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

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

type saleService interface {
	List(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.SaleDetail, error)
	NextSequence(ctx context.Context, rawTag string) (*models.NextSequenceResponse, error)
	Create(ctx context.Context, req models.CreateSaleRequest) (*models.Sale, error)
	Update(ctx context.Context, id string, req models.UpdateSaleRequest) (*models.Sale, error)
	Cancel(ctx context.Context, id string, req models.CancelSaleRequest) (*models.SaleDetail, error)
	Delete(ctx context.Context, id string) error
}

type saleExporter interface {
	ExportSales(ctx context.Context, filter models.SaleFilter, format string) (*service.ExportFile, error)
}

// SaleHandler exposes sales ("ventas").
type SaleHandler struct {
	sales    saleService
	exporter saleExporter
}

// NewSaleHandler constructs a SaleHandler.
func NewSaleHandler(sales saleService, exporter saleExporter) *SaleHandler {
	return &SaleHandler{sales: sales, exporter: exporter}
}

func saleFilter(c *gin.Context) models.SaleFilter {
	params := parseListParams(c)
	filter := models.SaleFilter{
		BeneficiaryID: strings.TrimSpace(c.Query("beneficiarioId")),
		Search:        params.Search,
		Page:          params.Page,
		PageSize:      params.PageSize,
		SortBy:        params.SortBy,
		SortOrder:     params.SortOrder,
	}
	if raw := strings.ToLower(strings.TrimSpace(c.Query("tipo"))); raw != "" {
		if t := models.SaleType(raw); t.Valid() {
			filter.Type = &t
		}
	}
	switch status := models.SaleStatus(strings.ToLower(strings.TrimSpace(c.Query("estado")))); status {
	case models.SaleActive, models.SaleCancelled:
		filter.Status = &status
	}
	if d, err := models.ParseDate(c.Query("desde")); err == nil {
		filter.From = &d
	}
	if d, err := models.ParseDate(c.Query("hasta")); err == nil {
		filter.To = &d
	}
	return filter
}

// List godoc
// @Summary List sales
// @Tags Ventas
// @Produce json
// @Param tipo query string false "curso or matricula"
// @Param estado query string false "vigente or anulada"
// @Param beneficiarioId query string false "Beneficiary ID"
// @Param desde query string false "Start date from (YYYY-MM-DD)"
// @Param hasta query string false "Start date to (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /ventas [get]
func (h *SaleHandler) List(c *gin.Context) {
	sales, pagination, err := h.sales.List(c.Request.Context(), saleFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sales, pagination)
}

// Get godoc
// @Summary Get sale detail
// @Tags Ventas
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} response.Envelope
// @Router /ventas/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.sales.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sale, nil)
}

// NextSequence godoc
// @Summary Preview the next consecutive number
// @Description Advisory read; the counter is not consumed.
// @Tags Ventas
// @Produce json
// @Param tipo query string false "curso (default) or matricula"
// @Success 200 {object} response.Envelope
// @Router /ventas/next-consecutivo [get]
func (h *SaleHandler) NextSequence(c *gin.Context) {
	next, err := h.sales.NextSequence(c.Request.Context(), c.Query("tipo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, next, nil)
}

// Create godoc
// @Summary Create sale
// @Description Without codigoVenta the next code is reserved server side. The payment write is best effort.
// @Tags Ventas
// @Accept json
// @Produce json
// @Param payload body models.CreateSaleRequest true "Sale payload"
// @Success 201 {object} response.Envelope
// @Router /ventas [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req models.CreateSaleRequest
	if !bindJSON(c, &req, "Datos de la venta inválidos") {
		return
	}
	sale, err := h.sales.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sale)
}

// Update godoc
// @Summary Update active sale
// @Tags Ventas
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param payload body models.UpdateSaleRequest true "Sale payload"
// @Success 200 {object} response.Envelope
// @Router /ventas/{id} [put]
func (h *SaleHandler) Update(c *gin.Context) {
	var req models.UpdateSaleRequest
	if !bindJSON(c, &req, "Datos de la venta inválidos") {
		return
	}
	sale, err := h.sales.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sale, nil)
}

// Cancel godoc
// @Summary Cancel sale
// @Tags Ventas
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param payload body models.CancelSaleRequest true "Cancellation reason"
// @Success 200 {object} response.Envelope
// @Router /ventas/{id}/anular [patch]
func (h *SaleHandler) Cancel(c *gin.Context) {
	var req models.CancelSaleRequest
	if !bindJSON(c, &req, "Motivo de anulación inválido") {
		return
	}
	sale, err := h.sales.Cancel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sale, nil)
}

// Delete godoc
// @Summary Delete sale
// @Tags Ventas
// @Param id path string true "Sale ID"
// @Success 204
// @Router /ventas/{id} [delete]
func (h *SaleHandler) Delete(c *gin.Context) {
	if err := h.sales.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export sales
// @Tags Ventas
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /ventas/export [get]
func (h *SaleHandler) Export(c *gin.Context) {
	filter := saleFilter(c)
	filter.Page, filter.PageSize = 0, 0
	file, err := h.exporter.ExportSales(c.Request.Context(), filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

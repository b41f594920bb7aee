package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
	"github.com/noah-isme/escuela-musica-api/pkg/export"
)

type saleExportRepository interface {
	ListAll(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, error)
}

type renderer interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered report ready to be served.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders sale listings as downloadable files.
type ExportService struct {
	sales     saleExportRepository
	renderers map[string]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(sales saleExportRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		sales: sales,
		renderers: map[string]renderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var saleExportHeaders = []string{
	"Código", "Tipo", "Beneficiario", "Curso / Matrícula", "Inicio", "Fin",
	"Clases", "Valor total", "Descuento", "Estado",
}

// ExportSales renders every sale matching filter in the requested format.
func (s *ExportService) ExportSales(ctx context.Context, filter models.SaleFilter, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, fieldError("Formato de exportación inválido", fmt.Sprintf("formato %s no soportado", format))
	}

	sales, err := s.sales.ListAll(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to load sales for export")
	}

	data := export.Dataset{Title: "Ventas", Headers: saleExportHeaders, Rows: make([][]string, 0, len(sales))}
	for _, sale := range sales {
		data.Rows = append(data.Rows, saleRow(sale))
	}

	payload, err := r.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("sales exported", zap.String("format", format), zap.Int("rows", len(sales)))

	return &ExportFile{
		Filename:    fmt.Sprintf("ventas-%s.%s", s.now().Format("20060102-150405"), r.Extension()),
		ContentType: r.ContentType(),
		Data:        payload,
	}, nil
}

func saleRow(sale models.SaleDetail) []string {
	item := ""
	switch {
	case sale.CourseName != nil:
		item = *sale.CourseName
	case sale.EnrollmentTypeName != nil:
		item = *sale.EnrollmentTypeName
	}
	classes := ""
	if sale.ClassCount != nil {
		classes = strconv.Itoa(*sale.ClassCount)
	}
	return []string{
		sale.SaleCode,
		string(sale.Type),
		sale.BeneficiaryName,
		item,
		dateCell(sale.StartDate),
		dateCell(sale.EndDate),
		classes,
		sale.TotalValue.StringFixed(2),
		sale.Discount.StringFixed(2),
		string(sale.Status),
	}
}

func dateCell(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/internal/service"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

type teacherServiceStub struct {
	teachers      []models.Teacher
	err           error
	lastFilter    models.TeacherFilter
	lastStatus    string
	lastSpecialty string
	lastID        string
	statusReq     models.UpdateTeacherStatusRequest
}

func (s *teacherServiceStub) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	s.lastFilter = filter
	return s.teachers, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(s.teachers)}, s.err
}

func (s *teacherServiceStub) ListBySpecialty(ctx context.Context, specialty string, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	s.lastSpecialty = specialty
	return s.List(ctx, filter)
}

func (s *teacherServiceStub) ListByStatus(ctx context.Context, rawStatus string, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	s.lastStatus = rawStatus
	return s.List(ctx, filter)
}

func (s *teacherServiceStub) Get(ctx context.Context, id string) (*models.Teacher, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &models.Teacher{ID: id}, nil
}

func (s *teacherServiceStub) Create(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Teacher{ID: "t-1", Names: req.Names}, nil
}

func (s *teacherServiceStub) Update(ctx context.Context, id string, req models.UpdateTeacherRequest) (*models.Teacher, error) {
	s.lastID = id
	return &models.Teacher{ID: id}, s.err
}

func (s *teacherServiceStub) UpdateStatus(ctx context.Context, id string, req models.UpdateTeacherStatusRequest) (*models.Teacher, error) {
	s.lastID = id
	s.statusReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Teacher{ID: id, Status: models.TeacherStatus(req.Status)}, nil
}

func (s *teacherServiceStub) Delete(ctx context.Context, id string) error {
	s.lastID = id
	return s.err
}

type saleServiceStub struct {
	err        error
	lastFilter models.SaleFilter
	lastTag    string
	lastID     string
	created    models.CreateSaleRequest
	cancel     models.CancelSaleRequest
	calls      []string
}

func (s *saleServiceStub) List(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, *models.Pagination, error) {
	s.calls = append(s.calls, "list")
	s.lastFilter = filter
	return []models.SaleDetail{}, &models.Pagination{Page: 1, PageSize: 20}, s.err
}

func (s *saleServiceStub) Get(ctx context.Context, id string) (*models.SaleDetail, error) {
	s.calls = append(s.calls, "get")
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &models.SaleDetail{Sale: models.Sale{ID: id}}, nil
}

func (s *saleServiceStub) NextSequence(ctx context.Context, rawTag string) (*models.NextSequenceResponse, error) {
	s.calls = append(s.calls, "next")
	s.lastTag = rawTag
	return &models.NextSequenceResponse{NextSequence: 8, SaleCode: "CU0008"}, s.err
}

func (s *saleServiceStub) Create(ctx context.Context, req models.CreateSaleRequest) (*models.Sale, error) {
	s.calls = append(s.calls, "create")
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Sale{ID: "s-1", SaleCode: "CU0001", Status: models.SaleActive}, nil
}

func (s *saleServiceStub) Update(ctx context.Context, id string, req models.UpdateSaleRequest) (*models.Sale, error) {
	s.calls = append(s.calls, "update")
	s.lastID = id
	return &models.Sale{ID: id}, s.err
}

func (s *saleServiceStub) Cancel(ctx context.Context, id string, req models.CancelSaleRequest) (*models.SaleDetail, error) {
	s.calls = append(s.calls, "cancel")
	s.lastID = id
	s.cancel = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.SaleDetail{Sale: models.Sale{ID: id, Status: models.SaleCancelled}}, nil
}

func (s *saleServiceStub) Delete(ctx context.Context, id string) error {
	s.calls = append(s.calls, "delete")
	s.lastID = id
	return s.err
}

type exporterStub struct {
	format string
	filter models.SaleFilter
	err    error
}

func (e *exporterStub) ExportSales(ctx context.Context, filter models.SaleFilter, format string) (*service.ExportFile, error) {
	e.format = format
	e.filter = filter
	if e.err != nil {
		return nil, e.err
	}
	return &service.ExportFile{Filename: "ventas-20260305-083000.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("Código\nCU0001\n")}, nil
}

type authServiceStub struct {
	req models.LoginRequest
	err error
}

func (a *authServiceStub) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	a.req = req
	if a.err != nil {
		return nil, a.err
	}
	return &models.LoginResponse{AccessToken: "tok", ExpiresIn: 3600}, nil
}

var errUnauthorizedToken = appErrors.Clone(appErrors.ErrUnauthorized, "Token inválido")

type tokenStub struct {
	claims map[string]*models.JWTClaims
}

func (t tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := t.claims[token]; ok {
		return claims, nil
	}
	return nil, errUnauthorizedToken
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code              string   `json:"code"`
	Message           string   `json:"message"`
	Errors            []string `json:"errors"`
	AssociatedRecords []struct {
		ID   string `json:"id"`
		Kind string `json:"tipo"`
	} `json:"associatedRecords"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

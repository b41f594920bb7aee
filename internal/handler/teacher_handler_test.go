package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

func teacherRouter(teachers *teacherServiceStub) http.Handler {
	r := newEngine()
	Register(r, RouterConfig{TeacherHandler: NewTeacherHandler(teachers)})
	return r
}

func TestTeacherHandlerListFilters(t *testing.T) {
	teachers := &teacherServiceStub{teachers: []models.Teacher{{ID: "t-1"}}}
	w := doRequest(t, teacherRouter(teachers), http.MethodGet, "/api/profesores?usuarioId=u-7&estado=activo&search=%20Laura%20", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-7", teachers.lastFilter.UserID)
	assert.Equal(t, "Laura", teachers.lastFilter.Search)
	require.NotNil(t, teachers.lastFilter.Status)
	assert.Equal(t, models.TeacherActive, *teachers.lastFilter.Status)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
}

func TestTeacherHandlerSpecialtyAndStatusRoutes(t *testing.T) {
	teachers := &teacherServiceStub{}
	r := teacherRouter(teachers)

	w := doRequest(t, r, http.MethodGet, "/api/profesores/especialidad/Piano", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Piano", teachers.lastSpecialty)

	w = doRequest(t, r, http.MethodGet, "/api/profesores/estado/Inactivo?estado=Activo", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Inactivo", teachers.lastStatus)
	assert.Nil(t, teachers.lastFilter.Status)
}

func TestTeacherHandlerUpdateStatus(t *testing.T) {
	teachers := &teacherServiceStub{}
	w := doRequest(t, teacherRouter(teachers), http.MethodPatch, "/api/profesores/t-3/estado", `{"estado":"Suspendido"}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t-3", teachers.lastID)
	assert.Equal(t, "Suspendido", teachers.statusReq.Status)
}

func TestTeacherHandlerCreateValidationErrors(t *testing.T) {
	teachers := &teacherServiceStub{err: appErrors.Clone(appErrors.ErrValidation, "Datos del profesor inválidos").
		WithErrors("nombres debe tener al menos 2 caracteres")}
	w := doRequest(t, teacherRouter(teachers), http.MethodPost, "/api/profesores", `{"nombres":"L"}`, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Datos del profesor inválidos", body.Message)
	assert.Equal(t, []string{"nombres debe tener al menos 2 caracteres"}, body.Errors)
}

func TestTeacherHandlerGetNotFound(t *testing.T) {
	teachers := &teacherServiceStub{err: appErrors.Clone(appErrors.ErrNotFound, "Profesor no encontrado")}
	w := doRequest(t, teacherRouter(teachers), http.MethodGet, "/api/profesores/nope", nil, "")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, decodeError(t, w).Code)
}

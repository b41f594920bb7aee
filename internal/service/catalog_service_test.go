package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

type fakeClassroomRepo struct {
	ids       *idSeq
	items     map[string]*models.Classroom
	deleteErr error
}

func (f *fakeClassroomRepo) List(ctx context.Context, filter models.CatalogFilter) ([]models.Classroom, int, error) {
	out := make([]models.Classroom, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeClassroomRepo) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	if c, ok := f.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeClassroomRepo) ExistsByRoomNumber(ctx context.Context, roomNumber, excludeID string) (bool, error) {
	for _, c := range f.items {
		if strings.EqualFold(c.RoomNumber, roomNumber) && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassroomRepo) Create(ctx context.Context, c *models.Classroom) error {
	c.ID = f.ids.next()
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeClassroomRepo) Update(ctx context.Context, c *models.Classroom) error {
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeClassroomRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeNamedCatalog struct {
	ids     *idSeq
	courses map[string]*models.Course
}

func (f *fakeNamedCatalog) List(ctx context.Context, filter models.CatalogFilter) ([]models.Course, int, error) {
	out := make([]models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeNamedCatalog) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeNamedCatalog) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for _, c := range f.courses {
		if strings.EqualFold(c.Name, name) && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNamedCatalog) Create(ctx context.Context, c *models.Course) error {
	c.ID = f.ids.next()
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeNamedCatalog) Update(ctx context.Context, c *models.Course) error {
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeNamedCatalog) Delete(ctx context.Context, id string) error {
	if _, ok := f.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.courses, id)
	return nil
}

func TestClassroomServiceLifecycle(t *testing.T) {
	repo := &fakeClassroomRepo{ids: &idSeq{}, items: map[string]*models.Classroom{}}
	svc := NewClassroomService(repo, nil, nil)

	created, err := svc.Create(context.Background(), models.ClassroomRequest{RoomNumber: " A-101 ", Capacity: 12})
	require.NoError(t, err)
	assert.Equal(t, "A-101", created.RoomNumber)
	assert.True(t, created.Active)

	_, err = svc.Create(context.Background(), models.ClassroomRequest{RoomNumber: "a-101", Capacity: 5})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))

	_, err = svc.Create(context.Background(), models.ClassroomRequest{RoomNumber: "B-1", Capacity: 0})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	inactive := false
	updated, err := svc.Update(context.Background(), created.ID, models.ClassroomRequest{RoomNumber: "A-101", Capacity: 20, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Capacity)
	assert.False(t, updated.Active)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	err = svc.Delete(context.Background(), created.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestClassroomServiceDeleteReferenced(t *testing.T) {
	id := testID(1)
	repo := &fakeClassroomRepo{
		ids:       &idSeq{},
		items:     map[string]*models.Classroom{id: {ID: id}},
		deleteErr: &pq.Error{Code: "23503"},
	}
	svc := NewClassroomService(repo, nil, nil)

	err := svc.Delete(context.Background(), id)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDeleteBlocked))
}

func TestCourseServiceCreateAndDeleteGuard(t *testing.T) {
	ids := &idSeq{}
	courses := &fakeNamedCatalog{ids: ids, courses: map[string]*models.Course{}}
	sales := newFakeSaleRepo(ids)
	svc := NewCourseService(courses, sales, nil, nil, nil)

	course, err := svc.Create(context.Background(), models.CourseRequest{Name: "Guitarra básica", PricePerHour: decimal.NewFromInt(45000)})
	require.NoError(t, err)
	assert.Nil(t, course.Description)

	_, err = svc.Create(context.Background(), models.CourseRequest{Name: "Violín", PricePerHour: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), models.CourseRequest{Name: "guitarra básica"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))

	courseID := course.ID
	sales.items[testID(2)] = &models.Sale{ID: testID(2), CourseID: &courseID, SaleCode: "CU0001"}
	err = svc.Delete(context.Background(), course.ID)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDeleteBlocked.Code, appErr.Code)
	require.Len(t, appErr.AssociatedRecords, 1)
	assert.Equal(t, "venta", appErr.AssociatedRecords[0].Kind)

	delete(sales.items, testID(2))
	require.NoError(t, svc.Delete(context.Background(), course.ID))
}

type fakeEnrollmentCatalog struct {
	ids   *idSeq
	items map[string]*models.EnrollmentType
}

func (f *fakeEnrollmentCatalog) List(ctx context.Context, filter models.CatalogFilter) ([]models.EnrollmentType, int, error) {
	out := make([]models.EnrollmentType, 0, len(f.items))
	for _, et := range f.items {
		out = append(out, *et)
	}
	return out, len(out), nil
}

func (f *fakeEnrollmentCatalog) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentType, error) {
	if et, ok := f.items[id]; ok {
		cp := *et
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEnrollmentCatalog) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for _, et := range f.items {
		if strings.EqualFold(et.Name, name) && et.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentCatalog) Create(ctx context.Context, et *models.EnrollmentType) error {
	et.ID = f.ids.next()
	cp := *et
	f.items[et.ID] = &cp
	return nil
}

func (f *fakeEnrollmentCatalog) Update(ctx context.Context, et *models.EnrollmentType) error {
	cp := *et
	f.items[et.ID] = &cp
	return nil
}

func (f *fakeEnrollmentCatalog) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func TestEnrollmentTypeServiceUpdateAndDeleteGuard(t *testing.T) {
	ids := &idSeq{}
	repo := &fakeEnrollmentCatalog{ids: ids, items: map[string]*models.EnrollmentType{}}
	sales := newFakeSaleRepo(ids)
	svc := NewEnrollmentTypeService(repo, sales, nil, nil, nil)

	et, err := svc.Create(context.Background(), models.EnrollmentTypeRequest{Name: "Semestral", Value: decimal.NewFromInt(120000)})
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), models.EnrollmentTypeRequest{Name: "Anual", Value: decimal.NewFromInt(200000)})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), other.ID, models.EnrollmentTypeRequest{Name: "semestral", Value: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))

	updated, err := svc.Update(context.Background(), et.ID, models.EnrollmentTypeRequest{Name: "Semestral", Value: decimal.NewFromInt(130000)})
	require.NoError(t, err)
	assert.True(t, updated.Value.Equal(decimal.NewFromInt(130000)))

	etID := et.ID
	sales.items[testID(3)] = &models.Sale{ID: testID(3), EnrollmentTypeID: &etID}
	err = svc.Delete(context.Background(), et.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrDeleteBlocked))

	_, err = svc.Get(context.Background(), "zzz")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

type teacherFixture struct {
	svc         *TeacherService
	teachers    *fakeTeacherRepo
	users       *fakeUserRepo
	roles       *fakeRoleRepo
	assignments *fakeAssignmentRepo
	schedules   *fakeScheduleRepo
}

func newTeacherFixture(t *testing.T, tx *txProviderMock) teacherFixture {
	t.Helper()
	ids := &idSeq{}
	f := teacherFixture{
		teachers:  newFakeTeacherRepo(ids),
		users:     newFakeUserRepo(ids),
		roles:     newFakeRoleRepo(),
		schedules: &fakeScheduleRepo{},
	}
	f.assignments = newFakeAssignmentRepo(ids, f.roles)
	f.svc = NewTeacherService(tx, f.teachers, f.users, f.roles, f.assignments, f.schedules, nil, nil, nil)
	return f
}

func validTeacherRequest() models.CreateTeacherRequest {
	return models.CreateTeacherRequest{
		Names:          "Laura",
		Surnames:       "Pérez",
		DocumentType:   "CC",
		DocumentNumber: "1020304050",
		Phone:          "3001234567",
		Email:          "Laura@Escuela.co",
		Password:       "secreto1",
		Specialties:    []string{"Piano", " piano ", "Violín"},
	}
}

func TestTeacherServiceCreateLinksUserAndRole(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	mock.ExpectBegin()
	mock.ExpectCommit()

	teacher, err := f.svc.Create(context.Background(), validTeacherRequest())
	require.NoError(t, err)
	require.NotNil(t, teacher.UserID)
	assert.Equal(t, "laura@escuela.co", teacher.Email)
	assert.Equal(t, []string{"Piano", "Violín"}, []string(teacher.Specialties))
	assert.Equal(t, models.TeacherActive, teacher.Status)

	user, ok := f.users.items[*teacher.UserID]
	require.True(t, ok)
	assert.Equal(t, models.TagTeacher, user.Role)
	assert.NotEqual(t, "secreto1", user.PasswordHash)
	assert.Equal(t, []string{models.RoleNameTeacher}, f.assignments.roleNamesFor(user.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherServiceCreateDuplicateDocument(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	f.teachers.items["t-1"] = &models.Teacher{ID: "t-1", DocumentNumber: "1020304050", Email: "otra@escuela.co"}

	_, err := f.svc.Create(context.Background(), validTeacherRequest())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))
	assert.Empty(t, f.users.items)
	assert.Empty(t, f.assignments.items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherServiceCreateSpecialtyBounds(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)

	req := validTeacherRequest()
	req.Specialties = []string{}
	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	req.Specialties = []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10", "a11"}
	_, err = f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	req.Specialties = []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10", "A10"}
	_, err = f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	req.Specialties = []string{"x"}
	_, err = f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	assert.Empty(t, f.teachers.items)
	assert.Empty(t, f.users.items)
	assert.Empty(t, f.assignments.items)
}

func TestTeacherServiceUpdateCountsSuppliedSpecialties(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	id := testID(5)
	f.teachers.items[id] = &models.Teacher{ID: id, Email: "a@escuela.co", DocumentNumber: "111111", Specialties: []string{"Piano"}}

	_, err := f.svc.Update(context.Background(), id, models.UpdateTeacherRequest{
		Specialties: []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10", "a1"},
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, []string{"Piano"}, []string(f.teachers.items[id].Specialties))

	updated, err := f.svc.Update(context.Background(), id, models.UpdateTeacherRequest{Specialties: []string{"Canto", "canto "}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Canto"}, []string(updated.Specialties))
}

func TestTeacherServiceCreateRollsBackWhenRoleGrantFails(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	f.assignments.createErr = errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.svc.Create(context.Background(), validTeacherRequest())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrTransactionAborted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherServiceCreateFailsWhenUserEmailTaken(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	f.users.items["u-1"] = &models.User{ID: "u-1", Email: "laura@escuela.co", DocumentNumber: "999999"}
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.svc.Create(context.Background(), validTeacherRequest())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))
	assert.Empty(t, f.teachers.items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherServiceGetMalformedID(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)

	_, err := f.svc.Get(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestTeacherServiceUpdateRejectsForeignUserLink(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	userID := testID(1)
	other := testID(2)
	f.users.items[userID] = &models.User{ID: userID, Email: "u@escuela.co"}
	f.teachers.items[testID(10)] = &models.Teacher{ID: testID(10), Email: "a@escuela.co", DocumentNumber: "111111", UserID: &userID}
	f.teachers.items[other] = &models.Teacher{ID: other, Email: "b@escuela.co", DocumentNumber: "222222"}

	_, err := f.svc.Update(context.Background(), other, models.UpdateTeacherRequest{UserID: &userID})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))

	bad := "nope"
	_, err = f.svc.Update(context.Background(), other, models.UpdateTeacherRequest{UserID: &bad})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	empty := ""
	updated, err := f.svc.Update(context.Background(), testID(10), models.UpdateTeacherRequest{UserID: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.UserID)
}

func TestTeacherServiceUpdateStatus(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	id := testID(3)
	f.teachers.items[id] = &models.Teacher{ID: id, Status: models.TeacherActive}

	updated, err := f.svc.UpdateStatus(context.Background(), id, models.UpdateTeacherStatusRequest{Status: "suspendido"})
	require.NoError(t, err)
	assert.Equal(t, models.TeacherSuspended, updated.Status)

	_, err = f.svc.UpdateStatus(context.Background(), id, models.UpdateTeacherStatusRequest{Status: "jubilado"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestTeacherServiceDeleteBlockedBySchedules(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	id := testID(4)
	f.teachers.items[id] = &models.Teacher{ID: id}
	f.schedules.classes = []models.ClassSchedule{{ID: "c-1", TeacherID: id, StartTime: "10:00", EndTime: "11:00"}}
	f.schedules.blocks = []models.TeacherSchedule{{ID: "b-1", TeacherID: id, Status: models.TeacherScheduleActive}}

	err := f.svc.Delete(context.Background(), id)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDeleteBlocked.Code, appErr.Code)
	assert.Len(t, appErr.AssociatedRecords, 2)
	assert.Contains(t, f.teachers.items, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherServiceDelete(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	id := testID(5)
	f.teachers.items[id] = &models.Teacher{ID: id}
	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, f.svc.Delete(context.Background(), id))
	assert.Equal(t, []string{id}, f.teachers.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherServiceEnsureForUserAdoptsUnlinkedTeacher(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	user := &models.User{ID: testID(6), Name: "Mario", Surname: "Ruiz", Email: "mario@escuela.co", DocumentNumber: "55555555"}
	f.teachers.items[testID(7)] = &models.Teacher{ID: testID(7), Email: "mario@escuela.co", Specialties: []string{"Guitarra"}}

	teacher, err := f.svc.EnsureForUser(context.Background(), nil, user, TeacherSeed{}, TeacherDefaults{Specialty: "General", PlaceholderPhone: "0000000"})
	require.NoError(t, err)
	assert.Equal(t, testID(7), teacher.ID)
	require.NotNil(t, teacher.UserID)
	assert.Equal(t, user.ID, *teacher.UserID)
	assert.Equal(t, []string{"Guitarra"}, []string(teacher.Specialties))
	assert.Equal(t, "0000000", teacher.Phone)
	assert.Equal(t, []string{models.RoleNameTeacher}, f.assignments.roleNamesFor(user.ID))
}

func TestTeacherServiceEnsureForUserRejectsTeacherOfAnotherUser(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	owner := testID(8)
	f.teachers.items[testID(9)] = &models.Teacher{ID: testID(9), DocumentNumber: "77777777", UserID: &owner}
	user := &models.User{ID: testID(11), Email: "nuevo@escuela.co", DocumentNumber: "77777777"}

	_, err := f.svc.EnsureForUser(context.Background(), nil, user, TeacherSeed{}, TeacherDefaults{Specialty: "General"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))
}

func TestTeacherServiceListBySpecialty(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newTeacherFixture(t, tx)
	f.teachers.items["a"] = &models.Teacher{ID: "a", Specialties: []string{"Piano"}}
	f.teachers.items["b"] = &models.Teacher{ID: "b", Specialties: []string{"Canto"}}

	items, page, err := f.svc.ListBySpecialty(context.Background(), "piano", models.TeacherFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 1, page.TotalCount)

	_, _, err = f.svc.ListBySpecialty(context.Background(), "  ", models.TeacherFilter{})
	require.Error(t, err)
}

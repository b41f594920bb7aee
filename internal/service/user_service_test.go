package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

type userFixture struct {
	svc           *UserService
	users         *fakeUserRepo
	teachers      *fakeTeacherRepo
	roles         *fakeRoleRepo
	assignments   *fakeAssignmentRepo
	beneficiaries *fakeBeneficiaryRepo
	sales         *fakeSaleRepo
	schedules     *fakeScheduleRepo
}

func newUserFixture(t *testing.T, tx *txProviderMock) userFixture {
	t.Helper()
	ids := &idSeq{}
	f := userFixture{
		users:         newFakeUserRepo(ids),
		teachers:      newFakeTeacherRepo(ids),
		roles:         newFakeRoleRepo(),
		beneficiaries: newFakeBeneficiaryRepo(ids),
		sales:         newFakeSaleRepo(ids),
		schedules:     &fakeScheduleRepo{},
	}
	f.assignments = newFakeAssignmentRepo(ids, f.roles)
	teacherSvc := NewTeacherService(tx, f.teachers, f.users, f.roles, f.assignments, f.schedules, nil, nil, zap.NewNop())
	f.svc = NewUserService(tx, UserDependencies{
		Users:         f.users,
		Assignments:   f.assignments,
		Roles:         f.roles,
		Grants:        f.assignments,
		Teachers:      teacherSvc,
		TeacherLookup: f.teachers,
		Beneficiaries: f.beneficiaries,
		Sales:         f.sales,
		Schedules:     f.schedules,
	}, TeacherDefaults{Specialty: "Música general", PlaceholderPhone: "0000000000"}, nil, nil, nil)
	return f
}

func validUserRequest() models.CreateUserRequest {
	return models.CreateUserRequest{
		Name:           "Sofía",
		Surname:        "Martínez",
		Email:          "sofia@escuela.co",
		Password:       "clave123",
		DocumentType:   "CC",
		DocumentNumber: "12345678",
	}
}

func (f userFixture) grant(t *testing.T, userID, roleName string) {
	t.Helper()
	require.NoError(t, f.assignments.Create(context.Background(), nil, &models.RoleAssignment{
		UserID: userID, RoleID: f.roles.idOf(roleName), Active: true,
	}))
}

func TestUserServiceCreatePlainUser(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	mock.ExpectBegin()
	mock.ExpectCommit()

	user, err := f.svc.Create(context.Background(), validUserRequest())
	require.NoError(t, err)
	assert.Equal(t, models.TagUser, user.Role)
	assert.True(t, user.Active)
	assert.Empty(t, f.assignments.items)
	assert.Empty(t, f.teachers.items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceCreateTeacherEnsuresTeacher(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	mock.ExpectBegin()
	mock.ExpectCommit()

	req := validUserRequest()
	req.Role = "Profesor"
	req.Specialties = []string{"Batería"}
	user, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	teacher, err := f.teachers.FindByUserID(context.Background(), nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Batería"}, []string(teacher.Specialties))
	assert.Equal(t, "0000000000", teacher.Phone)
	assert.Equal(t, user.Email, teacher.Email)
	assert.Equal(t, []string{models.RoleNameTeacher}, f.assignments.roleNamesFor(user.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceCreateTeacherFlagUsesDefaultSpecialty(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	mock.ExpectBegin()
	mock.ExpectCommit()

	req := validUserRequest()
	req.IsTeacher = true
	user, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.TagUser, user.Role)

	teacher, err := f.teachers.FindByUserID(context.Background(), nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Música general"}, []string(teacher.Specialties))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceCreateRollsBackOnTeacherFailure(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	f.teachers.createErr = errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectRollback()

	req := validUserRequest()
	req.Role = "profesor"
	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrTransactionAborted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceCreateValidation(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newUserFixture(t, tx)

	req := validUserRequest()
	req.Email = "no-es-correo"
	req.DocumentNumber = "12ab"
	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Errors, "correo debe ser un correo válido")
	assert.Contains(t, appErr.Errors, "documento debe contener entre 6 y 15 dígitos")

	req = validUserRequest()
	req.Role = "director"
	_, err = f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	f.users.items["u"] = &models.User{ID: "u", Email: "sofia@escuela.co"}
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.svc.Create(context.Background(), validUserRequest())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceGetIncludesActiveRoles(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	id := testID(1)
	f.users.items[id] = &models.User{ID: id, Role: models.TagAdmin}
	f.grant(t, id, models.RoleNameAdmin)
	require.NoError(t, f.assignments.Create(context.Background(), nil, &models.RoleAssignment{
		UserID: id, RoleID: f.roles.idOf(models.RoleNameClient), Active: false,
	}))

	detail, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, detail.Roles, 1)
	assert.Equal(t, models.RoleNameAdmin, detail.Roles[0].Name)
}

func TestUserServiceUpdateToTeacherCreatesTeacher(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	id := testID(2)
	f.users.items[id] = &models.User{ID: id, Name: "Ana", Email: "ana@escuela.co", DocumentNumber: "87654321", Role: models.TagUser}
	mock.ExpectBegin()
	mock.ExpectCommit()

	role := "profesor"
	phone := "3110000000"
	user, err := f.svc.Update(context.Background(), id, models.UpdateUserRequest{Role: &role, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, models.TagTeacher, user.Role)

	teacher, err := f.teachers.FindByUserID(context.Background(), nil, id)
	require.NoError(t, err)
	assert.Equal(t, "3110000000", teacher.Phone)
	assert.Equal(t, []string{models.RoleNameTeacher}, f.assignments.roleNamesFor(id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceUpdateMissingUser(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	mock.ExpectBegin()
	mock.ExpectRollback()

	name := "Otro"
	_, err := f.svc.Update(context.Background(), testID(3), models.UpdateUserRequest{Name: &name})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceDeleteBlockedByBeneficiarySales(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	id := testID(4)
	f.users.items[id] = &models.User{ID: id, Role: models.TagBeneficiary}
	bid := testID(5)
	f.beneficiaries.items[bid] = &models.Beneficiary{ID: bid, ClientID: bid, UserID: &id}
	for i := 0; i < 3; i++ {
		sid := testID(20 + i)
		f.sales.items[sid] = &models.Sale{ID: sid, BeneficiaryID: bid, SaleCode: "CU000" + string(rune('1'+i))}
	}
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := f.svc.Delete(context.Background(), id)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDeleteBlocked.Code, appErr.Code)
	assert.Len(t, appErr.AssociatedRecords, 3)
	assert.Contains(t, f.users.items, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceDeleteBlockedByDependentsOfClient(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	id := testID(6)
	f.users.items[id] = &models.User{ID: id, Role: models.TagUser}
	f.grant(t, id, models.RoleNameClient)
	own := testID(7)
	f.beneficiaries.items[own] = &models.Beneficiary{ID: own, ClientID: own, UserID: &id}
	child := testID(8)
	f.beneficiaries.items[child] = &models.Beneficiary{ID: child, ClientID: own, Names: "Tomás"}
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := f.svc.Delete(context.Background(), id)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDeleteBlocked.Code, appErr.Code)
	require.Len(t, appErr.AssociatedRecords, 1)
	assert.Equal(t, child, appErr.AssociatedRecords[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceDeleteBlockedByTeacherSchedules(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	id := testID(9)
	f.users.items[id] = &models.User{ID: id, Role: models.TagTeacher}
	tid := testID(10)
	f.teachers.items[tid] = &models.Teacher{ID: tid, UserID: &id}
	f.schedules.blocks = []models.TeacherSchedule{
		{ID: "b-1", TeacherID: tid, Status: models.TeacherScheduleActive},
		{ID: "b-2", TeacherID: tid, Status: "cancelado"},
	}
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := f.svc.Delete(context.Background(), id)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.AssociatedRecords, 1)
	assert.Equal(t, "b-1", appErr.AssociatedRecords[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceDeleteCascadesAssignments(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newUserFixture(t, tx)
	id := testID(11)
	f.users.items[id] = &models.User{ID: id, Role: models.TagAdmin}
	f.grant(t, id, models.RoleNameAdmin)
	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, f.svc.Delete(context.Background(), id))
	assert.Empty(t, f.assignments.items)
	assert.Equal(t, []string{id}, f.users.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserServiceDeleteMalformedID(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newUserFixture(t, tx)

	err := f.svc.Delete(context.Background(), "123")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

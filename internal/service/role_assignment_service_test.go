package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

func newAssignmentFixture(t *testing.T) (*RoleAssignmentService, *fakeAssignmentRepo, *fakeRoleRepo, string) {
	t.Helper()
	ids := &idSeq{}
	users := newFakeUserRepo(ids)
	roles := newFakeRoleRepo()
	assignments := newFakeAssignmentRepo(ids, roles)
	userID := testID(1)
	users.items[userID] = &models.User{ID: userID, Email: "ana@escuela.co", Active: true}
	return NewRoleAssignmentService(assignments, users, roles, nil, nil), assignments, roles, userID
}

func TestRoleAssignmentServiceCreateRejectsSecondActive(t *testing.T) {
	svc, assignments, roles, userID := newAssignmentFixture(t)
	req := models.CreateRoleAssignmentRequest{UserID: userID, RoleID: roles.idOf(models.RoleNameClient)}

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, created.Active)

	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))
	assert.Len(t, assignments.items, 1)
}

func TestRoleAssignmentServiceCreateConcurrentInsertIsDuplicate(t *testing.T) {
	svc, assignments, roles, userID := newAssignmentFixture(t)
	assignments.createErr = &pq.Error{Code: "23505", Constraint: "user_roles_active_key"}

	_, err := svc.Create(context.Background(), models.CreateRoleAssignmentRequest{UserID: userID, RoleID: roles.idOf(models.RoleNameTeacher)})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrDuplicate.Status, appErr.Status)
	assert.Equal(t, "El usuario ya tiene asignado este rol", appErr.Message)
}

func TestRoleAssignmentServiceCreateUnknownRole(t *testing.T) {
	svc, _, _, userID := newAssignmentFixture(t)

	_, err := svc.Create(context.Background(), models.CreateRoleAssignmentRequest{UserID: userID, RoleID: testID(77)})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

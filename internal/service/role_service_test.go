package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

type memoryCache struct {
	data    map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
		m.deletes = append(m.deletes, key)
	}
	return nil
}

func TestRoleServiceListUsesCache(t *testing.T) {
	repo := newFakeRoleRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(newMemoryCache(), metrics, time.Minute, nil, true)
	svc := NewRoleService(repo, cache, time.Minute, nil)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 4)
	assert.ElementsMatch(t, first, second)
	assert.Equal(t, 1, repo.lists)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
}

func TestRoleServiceSeedInvalidatesCache(t *testing.T) {
	store := newMemoryCache()
	svc := NewRoleService(newFakeRoleRepo(), NewCacheService(store, nil, time.Minute, nil, true), time.Minute, nil)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Seed(context.Background()))
	assert.Equal(t, []string{rolesCacheKey}, store.deletes)
	assert.Empty(t, store.data)
}

func TestRoleServiceWithoutCache(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo, nil, time.Minute, nil)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
}

func TestRoleServiceGet(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo, nil, 0, nil)

	role, err := svc.Get(context.Background(), repo.idOf(models.RoleNameClient))
	require.NoError(t, err)
	assert.Equal(t, models.RoleNameClient, role.Name)

	_, err = svc.Get(context.Background(), testID(77))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestRoleGranterFailsForUnseededRole(t *testing.T) {
	roles := &fakeRoleRepo{items: map[string]models.Role{}}
	granter := roleGranter{roles: roles, assignments: newFakeAssignmentRepo(&idSeq{}, roles)}

	err := granter.grant(context.Background(), nil, testID(1), models.RoleNameTeacher, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not seeded")
}

func TestRoleAssignmentServiceCreate(t *testing.T) {
	ids := &idSeq{}
	roles := newFakeRoleRepo()
	users := newFakeUserRepo(ids)
	assignments := newFakeAssignmentRepo(ids, roles)
	svc := NewRoleAssignmentService(assignments, users, roles, nil, nil)
	userID := testID(1)
	users.items[userID] = &models.User{ID: userID}
	req := models.CreateRoleAssignmentRequest{UserID: userID, RoleID: roles.idOf(models.RoleNameAdmin)}

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, created.Active)

	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))

	_, err = svc.Create(context.Background(), models.CreateRoleAssignmentRequest{UserID: testID(2), RoleID: req.RoleID})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Create(context.Background(), models.CreateRoleAssignmentRequest{UserID: userID, RoleID: testID(3)})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Create(context.Background(), models.CreateRoleAssignmentRequest{UserID: "x", RoleID: req.RoleID})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestRoleAssignmentServiceDeleteByUser(t *testing.T) {
	ids := &idSeq{}
	roles := newFakeRoleRepo()
	assignments := newFakeAssignmentRepo(ids, roles)
	svc := NewRoleAssignmentService(assignments, newFakeUserRepo(ids), roles, nil, nil)
	userID := testID(4)
	for _, name := range []string{models.RoleNameClient, models.RoleNameBeneficiary} {
		require.NoError(t, assignments.Create(context.Background(), nil, &models.RoleAssignment{UserID: userID, RoleID: roles.idOf(name), Active: true}))
	}

	removed, err := svc.DeleteByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	err = svc.Delete(context.Background(), testID(5))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

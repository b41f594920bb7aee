package repository

import (
	"errors"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("create sale: %w", &pq.Error{Code: "23505", Constraint: "sales_sale_code_key"})
	assert.True(t, IsUniqueViolation(err))
	assert.Equal(t, "sales_sale_code_key", ViolatedConstraint(err))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsForeignKeyViolation(err))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
}

func TestFilterBuilderNumbersPlaceholders(t *testing.T) {
	var fb filterBuilder
	fb.add("status = ?", "Activo")
	fb.add("(LOWER(email) LIKE ? OR document_number LIKE ?)", "%x%")

	assert.Equal(t, "FROM teachers WHERE 1=1 AND status = $1 AND (LOWER(email) LIKE $2 OR document_number LIKE $2)", fb.where("FROM teachers WHERE 1=1"))
	assert.Len(t, fb.args, 2)
}

func TestPageClauseDefaults(t *testing.T) {
	allowed := map[string]string{"created_at": "created_at", "nombre": "name"}
	assert.Equal(t, "ORDER BY created_at DESC LIMIT 20 OFFSET 0", pageClause("", "", allowed, "created_at", 0, 0))
	assert.Equal(t, "ORDER BY name ASC LIMIT 10 OFFSET 20", pageClause("nombre", "asc", allowed, "created_at", 3, 10))
	assert.Equal(t, "ORDER BY created_at DESC LIMIT 20 OFFSET 0", pageClause("password_hash; DROP", "sideways", allowed, "created_at", 1, 1000))
}

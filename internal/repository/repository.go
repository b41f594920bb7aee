package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	uniqueViolation = "23505"
	fkViolation     = "23503"
)

// IsUniqueViolation reports whether err is a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// IsForeignKeyViolation reports whether err is a Postgres foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == fkViolation
}

// ViolatedConstraint returns the constraint name carried by a Postgres error.
func ViolatedConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func pick(exec sqlx.ExtContext, db *sqlx.DB) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return db
}

// filterBuilder accumulates "AND" conditions with positional args.
type filterBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends a condition; every "?" in cond is replaced by the next placeholder.
func (b *filterBuilder) add(cond string, arg interface{}) {
	b.args = append(b.args, arg)
	b.conditions = append(b.conditions, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(b.args))))
}

func (b *filterBuilder) where(base string) string {
	if len(b.conditions) == 0 {
		return base
	}
	return base + " AND " + strings.Join(b.conditions, " AND ")
}

func searchPattern(raw string) string {
	return "%" + strings.ToLower(strings.TrimSpace(raw)) + "%"
}

// pageClause resolves sort column, direction and paging the way every list
// endpoint does: unknown sort keys fall back to fallback, size defaults to 20
// and is capped at 100.
func pageClause(sortBy, sortOrder string, allowed map[string]string, fallback string, page, size int) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed[fallback]
	}

	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}

	return fmt.Sprintf("ORDER BY %s %s LIMIT %d OFFSET %d", column, order, size, (page-1)*size)
}

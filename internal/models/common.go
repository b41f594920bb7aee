package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// DocumentType enumerates accepted identity documents.
type DocumentType string

const (
	DocumentTI  DocumentType = "TI"
	DocumentCC  DocumentType = "CC"
	DocumentCE  DocumentType = "CE"
	DocumentPP  DocumentType = "PP"
	DocumentNIT DocumentType = "NIT"
)

// DocumentTypes lists valid document types in display order.
var DocumentTypes = []DocumentType{DocumentTI, DocumentCC, DocumentCE, DocumentPP, DocumentNIT}

// Valid reports whether d is one of DocumentTypes.
func (d DocumentType) Valid() bool {
	for _, candidate := range DocumentTypes {
		if d == candidate {
			return true
		}
	}
	return false
}

const dateLayout = "2006-01-02"

// Date is a calendar day. It accepts "2006-01-02" or RFC3339 input and always
// renders as "2006-01-02".
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses either layout accepted by Date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return NewDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return Date{}, fmt.Errorf("fecha inválida %q", raw)
	}
	return NewDate(t), nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = NewDate(v)
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

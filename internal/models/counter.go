package models

import "fmt"

// Counter is a persistent monotonically increasing sequence keyed by sale type.
type Counter struct {
	ID       SaleType `db:"id" json:"id"`
	Sequence int64    `db:"sequence" json:"seq"`
}

var codePrefixes = map[SaleType]string{
	SaleTypeCourse:     "CU",
	SaleTypeEnrollment: "MA",
}

// FormatSaleCode renders the human readable code for a sequence, e.g. CU0001.
func FormatSaleCode(tag SaleType, seq int64) string {
	return fmt.Sprintf("%s%04d", codePrefixes[tag], seq)
}

// IncrementCounterResponse is returned by PATCH /contador/:tipo/incrementar.
type IncrementCounterResponse struct {
	Counter Counter `json:"contador"`
	Code    string  `json:"codigo"`
}

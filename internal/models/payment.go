package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodCash is the method whose payments never carry a transaction number.
const PaymentMethodCash = "Efectivo"

// IsCash reports whether method names a cash payment.
func IsCash(method string) bool {
	return strings.EqualFold(strings.TrimSpace(method), PaymentMethodCash)
}

// Payment records money received for a sale.
type Payment struct {
	ID                string          `db:"id" json:"id"`
	SaleID            string          `db:"sale_id" json:"ventaId"`
	Method            string          `db:"method" json:"metodoPago"`
	PaymentDate       time.Time       `db:"payment_date" json:"fechaPago"`
	Status            string          `db:"status" json:"estado"`
	Amount            decimal.Decimal `db:"amount" json:"valor_total"`
	Description       *string         `db:"description" json:"descripcion,omitempty"`
	TransactionNumber *string         `db:"transaction_number" json:"numeroTransaccion,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service servicio facturable del catálogo.
type Service struct {
	ID        int64
	Code      string // se envía como SKU
	Name      string
	Value     decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

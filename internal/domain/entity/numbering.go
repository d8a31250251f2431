package entity

import "time"

// Tipos de documento de una numeración.
const (
	NumberingKindInvoice    = "FACTURA"
	NumberingKindCreditNote = "NOTA_CREDITO"
	NumberingKindDebitNote  = "NOTA_DEBITO"
)

// Numbering numeración autorizada por la DIAN (resolución + prefijo + rango).
// Current es el último consecutivo usado.
type Numbering struct {
	ID               int64
	Kind             string
	Prefix           string
	ResolutionNumber string
	RangeFrom        int64
	RangeTo          int64
	Current          int64
	DateFrom         time.Time
	DateTo           time.Time
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

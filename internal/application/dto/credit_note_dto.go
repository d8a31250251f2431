package dto

import "github.com/shopspring/decimal"

// CreateCreditNoteRequest body para POST /api/notas-credito. La factura se
// referencia por ID o por prefijo + número.
type CreateCreditNoteRequest struct {
	InvoiceID     int64           `json:"factura_fiscal_id" validate:"required_without=InvoiceNumber,gte=0"`
	InvoicePrefix string          `json:"prefijo_factura" validate:"max=10"`
	InvoiceNumber string          `json:"numero_factura" validate:"required_without=InvoiceID,max=20"`
	Scope         string          `json:"alcance" validate:"required,oneof=TOTAL PARCIAL"`
	Nature        string          `json:"naturaleza" validate:"required,oneof=CREDITO DEBITO"`
	ReasonCode    string          `json:"concepto_codigo" validate:"required"`
	Reason        string          `json:"concepto" validate:"required,max=500"`
	Value         decimal.Decimal `json:"valor"`
}

// CreditNoteResponse nota crédito/débito.
type CreditNoteResponse struct {
	ID            int64           `json:"id"`
	InvoiceID     int64           `json:"factura_fiscal_id"`
	InvoicePrefix string          `json:"prefijo_factura"`
	InvoiceNumber string          `json:"numero_factura"`
	Prefix        string          `json:"prefijo"`
	Number        int64           `json:"numero"`
	Value         decimal.Decimal `json:"valor"`
	Scope         string          `json:"alcance"`
	Nature        string          `json:"naturaleza"`
	ReasonCode    string          `json:"concepto_codigo"`
	Reason        string          `json:"concepto"`
	State         string          `json:"estado"`
	CUFE          string          `json:"cufe,omitempty"`
	UUID          string          `json:"uuid,omitempty"`
	IssuedAt      string          `json:"fecha_emision"`
}

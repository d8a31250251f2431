package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest body para POST /api/facturas: factura los ítems de orden indicados.
type CreateInvoiceRequest struct {
	ThirdPartyID int64   `json:"tercero_id" validate:"required,gt=0"`
	InvoiceType  string  `json:"tipo_factura" validate:"required,oneof=1 2 3 4"`
	Concept      string  `json:"concepto" validate:"max=500"`
	OrderItemIDs []int64 `json:"orden_item_ids" validate:"required,min=1,dive,gt=0"`
	DueDate      string  `json:"fecha_vencimiento,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PeriodStart  string  `json:"periodo_inicio,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd    string  `json:"periodo_fin,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Send         bool    `json:"enviar"` // enviar a DataIco al confirmar
}

// InvoiceResponse factura fiscal con su estado electrónico vigente.
type InvoiceResponse struct {
	ID               int64               `json:"id"`
	Prefix           string              `json:"prefijo"`
	Number           string              `json:"numero"`
	ThirdPartyID     int64               `json:"tercero_id"`
	InvoiceType      string              `json:"tipo_factura"`
	Concept          string              `json:"concepto,omitempty"`
	Total            decimal.Decimal     `json:"total"`
	RegisteredAt     string              `json:"fecha_registro"`
	DueDate          string              `json:"fecha_vencimiento,omitempty"`
	ElectronicStatus string              `json:"estado_electronico"`
	CUFE             string              `json:"cufe,omitempty"`
	ProviderUUID     string              `json:"uuid,omitempty"`
	Items            []InvoiceItemOutput `json:"items,omitempty"`
	Submission       *SendResult         `json:"envio,omitempty"`
}

// InvoiceItemOutput ítem de factura.
type InvoiceItemOutput struct {
	ID          int64           `json:"id"`
	OrderItemID int64           `json:"orden_item_id"`
	Description string          `json:"descripcion,omitempty"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"valor_unitario"`
}

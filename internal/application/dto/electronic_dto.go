package dto

import "encoding/json"

// SendInvoiceRequest body para POST /api/electronic-invoicing/send.
type SendInvoiceRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// SendResult resultado de un envío (o consulta) al proveedor. Los fallos del
// proveedor se devuelven con success=false y HTTP 200.
type SendResult struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Status     string   `json:"estado_electronico,omitempty"`
	DianStatus string   `json:"dian_status,omitempty"`
	CUFE       string   `json:"cufe,omitempty"`
	UUID       string   `json:"uuid,omitempty"`
	PDFURL     string   `json:"pdf_url,omitempty"`
	XMLURL     string   `json:"xml_url,omitempty"`
	HTTPStatus int      `json:"http_status,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// AuditResponse registro de auditoría electrónica.
type AuditResponse struct {
	ID             int64           `json:"id"`
	InvoiceID      int64           `json:"factura_fiscal_id"`
	NoteID         *int64          `json:"nota_credito_id,omitempty"`
	DocumentKind   string          `json:"tipo_documento"`
	CorrelationID  string          `json:"correlation_id"`
	Success        bool            `json:"exitoso"`
	HTTPStatus     int             `json:"http_status"`
	LocalStatus    string          `json:"estado_electronico"`
	DianStatus     string          `json:"dian_status,omitempty"`
	CustomerStatus string          `json:"customer_status,omitempty"`
	EmailStatus    string          `json:"email_status,omitempty"`
	CUFE           string          `json:"cufe,omitempty"`
	UUID           string          `json:"uuid,omitempty"`
	IssueDate      string          `json:"issue_date,omitempty"`
	PaymentDate    string          `json:"payment_date,omitempty"`
	PDFURL         string          `json:"pdf_url,omitempty"`
	XMLURL         string          `json:"xml_url,omitempty"`
	QRCode         string          `json:"qrcode,omitempty"`
	Message        string          `json:"mensaje,omitempty"`
	RawResponse    json.RawMessage `json:"respuesta,omitempty"`
	RegisteredAt   string          `json:"fecha_registro"`
}

// HistoryResponse historial de envíos de una factura, del más reciente al más antiguo.
type HistoryResponse struct {
	InvoiceID        int64           `json:"factura_fiscal_id"`
	ElectronicStatus string          `json:"estado_electronico"`
	CUFE             string          `json:"cufe,omitempty"`
	Audits           []AuditResponse `json:"auditorias"`
}

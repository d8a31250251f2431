package entity

import (
	"encoding/json"
	"time"
)

// Tipos de documento auditados.
const (
	AuditDocInvoice    = "FACTURA"
	AuditDocCreditNote = "NOTA_CREDITO"
	AuditDocDebitNote  = "NOTA_DEBITO"
)

// ElectronicAudit registro de un intento de envío (o consulta de estado) al
// proveedor. Solo se inserta; nunca se actualiza. El más reciente por
// RegisteredAt es el estado vigente.
type ElectronicAudit struct {
	ID             int64
	InvoiceID      int64
	NoteID         *int64
	DocumentKind   string
	CorrelationID  string
	Success        bool
	HTTPStatus     int
	LocalStatus    string // estado electrónico local derivado
	DianStatus     string
	CustomerStatus string
	EmailStatus    string
	CUFE           string
	UUID           string
	IssueDate      string
	PaymentDate    string
	PDFURL         string
	XMLURL         string
	QRCode         string
	Message        string
	PayloadSent    json.RawMessage
	RawResponse    json.RawMessage
	RegisteredAt   time.Time
}

// Package dataico implementa el cliente REST del operador tecnológico DataIco
// y los tipos del documento JSON que recibe.
package dataico

import "encoding/json"

// Envelope cuerpo de la petición. Solo uno de Invoice, CreditNote o DebitNote va lleno.
type Envelope struct {
	Actions    Actions   `json:"actions"`
	Invoice    *Document `json:"invoice,omitempty"`
	CreditNote *Document `json:"credit_note,omitempty"`
	DebitNote  *Document `json:"debit_note,omitempty"`
}

// Document devuelve el documento que viaja en el sobre.
func (e *Envelope) Document() *Document {
	switch {
	case e.Invoice != nil:
		return e.Invoice
	case e.CreditNote != nil:
		return e.CreditNote
	default:
		return e.DebitNote
	}
}

// Actions acciones que DataIco ejecuta tras recibir el documento.
type Actions struct {
	SendDIAN  bool `json:"send_dian"`
	SendEmail bool `json:"send_email"`
}

// Document factura, nota crédito o nota débito.
type Document struct {
	Env                 string               `json:"env"`
	AccountID           string               `json:"dataico_account_id"`
	Number              int64                `json:"number"`
	IssueDate           string               `json:"issue_date"`
	PaymentDate         string               `json:"payment_date,omitempty"`
	InvoiceTypeCode     string               `json:"invoice_type_code,omitempty"`
	PaymentMeansType    string               `json:"payment_means_type,omitempty"`
	PaymentMeans        string               `json:"payment_means,omitempty"`
	Operation           string               `json:"operation,omitempty"`
	Numbering           Numbering            `json:"numbering"`
	Notes               []string             `json:"notes,omitempty"`
	InvoiceID           string               `json:"invoice_id,omitempty"` // UUID de la factura referenciada (notas)
	Reason              string               `json:"reason,omitempty"`
	ReasonDescription   string               `json:"reason_description,omitempty"`
	Customer            *Customer            `json:"customer,omitempty"`
	Items               []Item               `json:"items"`
	Health              *Health              `json:"health,omitempty"`
	AssociatedDocuments []AssociatedDocument `json:"associated_documents,omitempty"`
}

// Numbering resolución y prefijo del documento.
type Numbering struct {
	ResolutionNumber string `json:"resolution_number,omitempty"`
	Prefix           string `json:"prefix"`
	Flexible         bool   `json:"flexible"`
}

// Customer adquiriente.
type Customer struct {
	Email                   string `json:"email,omitempty"`
	Phone                   string `json:"phone,omitempty"`
	PartyIdentificationType string `json:"party_identification_type"`
	PartyIdentification     string `json:"party_identification"`
	CheckDigit              string `json:"check_digit,omitempty"`
	PartyType               string `json:"party_type"`
	TaxLevelCode            string `json:"tax_level_code"`
	Regimen                 string `json:"regimen"`
	CompanyName             string `json:"company_name,omitempty"`
	FirstName               string `json:"first_name,omitempty"`
	FamilyName              string `json:"family_name,omitempty"`
	Department              string `json:"department,omitempty"`
	City                    string `json:"city,omitempty"`
	AddressLine             string `json:"address_line,omitempty"`
	CountryCode             string `json:"country_code"`
}

// Item línea del documento.
type Item struct {
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Taxes       []Tax   `json:"taxes"`
}

// Tax impuesto de la línea.
type Tax struct {
	TaxCategory string  `json:"tax_category"`
	TaxRate     float64 `json:"tax_rate"`
}

// Health sección del sector salud (facturas agrupadas e individuales).
type Health struct {
	Coverage        string       `json:"coverage"`
	PaymentModality string       `json:"payment_modality"`
	ProviderCode    string       `json:"provider_code,omitempty"`
	PeriodStart     string       `json:"period_start"`
	PeriodEnd       string       `json:"period_end"`
	Users           []HealthUser `json:"users,omitempty"`
}

// HealthUser usuario del servicio de salud.
type HealthUser struct {
	IdentificationType  string  `json:"identification_type"`
	Identification      string  `json:"identification"`
	FirstName           string  `json:"first_name,omitempty"`
	MiddleName          string  `json:"middle_name,omitempty"`
	FamilyName          string  `json:"family_name,omitempty"`
	SecondFamilyName    string  `json:"second_family_name,omitempty"`
	UserType            string  `json:"user_type,omitempty"`
	AuthorizationNumber string  `json:"authorization_number,omitempty"`
	ContractNumber      string  `json:"contract_number,omitempty"`
	PolicyNumber        string  `json:"policy_number,omitempty"`
	Copayment           float64 `json:"copayment"`
	ModeratingFee       float64 `json:"moderating_fee"`
}

// AssociatedDocument documento soporte asociado (orden de servicio).
type AssociatedDocument struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// Response campos relevantes de la respuesta de DataIco.
type Response struct {
	DianStatus     string `json:"dian_status"`
	CustomerStatus string `json:"customer_status"`
	EmailStatus    string `json:"email_status"`
	CUFE           string `json:"cufe"`
	UUID           string `json:"uuid"`
	IssueDate      string `json:"issue_date"`
	PaymentDate    string `json:"payment_date"`
	PDFURL         string `json:"pdf_url"`
	XMLURL         string `json:"xml_url"`
	QRCode         string `json:"qrcode"`
}

// Result resultado normalizado de una llamada al proveedor.
type Result struct {
	Success    bool
	StatusCode int // 0 si no hubo respuesta HTTP
	Response   *Response
	RawBody    json.RawMessage
	Message    string
	Errors     []FieldError
}

// RawOrNull cuerpo crudo apto para guardarse como JSON.
func (r *Result) RawOrNull() json.RawMessage {
	if len(r.RawBody) > 0 && json.Valid(r.RawBody) {
		return r.RawBody
	}
	if r.Message == "" {
		return nil
	}
	b, _ := json.Marshal(map[string]string{"message": r.Message})
	return b
}

package dto

// ErrorResponse cuerpo de error HTTP. Fields solo se llena en errores de validación (422).
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// DateLayout formato de fechas en el API interno.
const DateLayout = "2006-01-02"

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados electrónicos de la factura fiscal (proyección de la auditoría).
const (
	ElectronicStatusNone      = ""           // Sin envíos registrados
	ElectronicStatusEnviada   = "ENVIADA"    // Recibida por el proveedor, estado DIAN no reconocido
	ElectronicStatusAceptada  = "ACEPTADA"   // DIAN_ACEPTADO
	ElectronicStatusRechazada = "RECHAZADA"  // DIAN_RECHAZADO
	ElectronicStatusEnProceso = "EN_PROCESO" // DIAN_EN_PROCESO
	ElectronicStatusError     = "ERROR"      // Falló el envío (HTTP o red)
)

// Invoice factura fiscal. Se identifica por (empresa, prefijo, número) y no se
// elimina nunca. Los campos electrónicos no se persisten en la fila: se
// derivan del último registro de auditoría (ver dian.Project).
type Invoice struct {
	ID           int64
	CompanyID    int64
	NumberingID  int64
	Prefix       string
	Number       string // tal como está almacenado; puede traer caracteres no numéricos
	ThirdPartyID int64
	InvoiceType  string // '1'..'6', ver pkg/dian
	Concept      string // concepto libre para la línea genérica
	Total        decimal.Decimal
	RegisteredAt time.Time
	DueDate      *time.Time
	PeriodStart  *time.Time
	PeriodEnd    *time.Time

	ElectronicStatus string
	CUFE             string
	ProviderUUID     string
	ProviderResponse string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullNumber prefijo + número (ej. "FE1024").
func (i *Invoice) FullNumber() string {
	return i.Prefix + i.Number
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceOrder orden de servicio. Aporta los datos del paciente para la
// sección de salud de la factura.
type ServiceOrder struct {
	ID           int64
	Number       string
	ThirdPartyID int64
	Date         time.Time
	Patient      Patient
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Patient usuario del servicio de salud atendido en la orden.
type Patient struct {
	IdentificationType   string
	IdentificationNumber string
	FirstName            string
	SecondName           string
	FirstSurname         string
	SecondSurname        string
	UserType             string // CONTRIBUTIVO, SUBSIDIADO, PARTICULAR...
	AuthorizationNumber  string
	ContractNumber       string
	PolicyNumber         string
	Copayment            decimal.Decimal
	ModeratingFee        decimal.Decimal
}

// OrderItem línea de una orden de servicio.
type OrderItem struct {
	ID           int64
	OrderID      int64
	ServiceID    *int64
	Description  string
	Quantity     decimal.Decimal
	UnitValue    decimal.Decimal // puede ser cero: se usa el valor del servicio
	ServiceValue decimal.Decimal // valor de catálogo del servicio (solo lectura)
	Invoiced     bool
	CreatedAt    time.Time
}

// EffectiveValue valor unitario a facturar: el del ítem o, si es cero, el del catálogo.
func (i *OrderItem) EffectiveValue() decimal.Decimal {
	if i.UnitValue.GreaterThan(decimal.Zero) {
		return i.UnitValue
	}
	return i.ServiceValue
}

package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/location"
)

// Tipos de persona del tercero.
const (
	PersonTypeNatural  = "NATURAL"
	PersonTypeJuridica = "JURIDICA"
)

// ThirdParty tercero (cliente / pagador / proveedor).
type ThirdParty struct {
	ID                   int64
	IdentificationType   string // CC, NIT, TI, CE, PA...
	IdentificationNumber string
	VerificationDigit    string
	BusinessName         string // razón social
	FirstName            string
	SecondName           string
	FirstSurname         string
	SecondSurname        string
	PersonType           string
	TaxResponsible       bool // responsable de IVA
	SimpleRegime         bool
	Email                string
	Phone                string
	Address              location.Value
	Department           location.Value
	City                 location.Value
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsCompany indica si el tercero se factura como persona jurídica.
func (t *ThirdParty) IsCompany() bool {
	if t.PersonType != "" {
		return t.PersonType == PersonTypeJuridica
	}
	return t.IdentificationType == "NIT"
}

// DisplayName razón social o nombre completo.
func (t *ThirdParty) DisplayName() string {
	if t.BusinessName != "" {
		return t.BusinessName
	}
	return strings.Join(strings.Fields(strings.Join([]string{t.FirstName, t.SecondName, t.FirstSurname, t.SecondSurname}, " ")), " ")
}

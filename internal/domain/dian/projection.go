package dian

import (
	"sort"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// Projection estado electrónico vigente derivado del historial de auditoría.
type Projection struct {
	Status   string
	CUFE     string
	UUID     string
	Response string
	Latest   *entity.ElectronicAudit
}

// Project calcula el estado vigente: el registro más reciente por fecha de
// registro (y por ID en empate) define el estado y la respuesta; CUFE y UUID se
// toman del registro más reciente que los tenga, para que un reintento fallido
// no borre la referencia a un documento ya emitido.
func Project(audits []*entity.ElectronicAudit) Projection {
	if len(audits) == 0 {
		return Projection{Status: entity.ElectronicStatusNone}
	}
	ordered := make([]*entity.ElectronicAudit, 0, len(audits))
	for _, a := range audits {
		if a != nil {
			ordered = append(ordered, a)
		}
	}
	if len(ordered) == 0 {
		return Projection{Status: entity.ElectronicStatusNone}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].RegisteredAt.Equal(ordered[j].RegisteredAt) {
			return ordered[i].RegisteredAt.After(ordered[j].RegisteredAt)
		}
		return ordered[i].ID > ordered[j].ID
	})

	latest := ordered[0]
	p := Projection{
		Status:   latest.LocalStatus,
		Response: string(latest.RawResponse),
		Latest:   latest,
	}
	if p.Status == "" {
		p.Status = SubmissionStatus(latest.Success, latest.DianStatus)
	}
	for _, a := range ordered {
		if p.CUFE == "" && a.CUFE != "" {
			p.CUFE = a.CUFE
		}
		if p.UUID == "" && a.UUID != "" {
			p.UUID = a.UUID
		}
		if p.CUFE != "" && p.UUID != "" {
			break
		}
	}
	return p
}

// Apply copia la proyección sobre la factura.
func (p Projection) Apply(inv *entity.Invoice) {
	if inv == nil {
		return
	}
	inv.ElectronicStatus = p.Status
	inv.CUFE = p.CUFE
	inv.ProviderUUID = p.UUID
	inv.ProviderResponse = p.Response
}

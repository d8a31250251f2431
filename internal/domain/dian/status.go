// Package dian contiene las reglas de dominio del ciclo de vida electrónico:
// traducción de estados DIAN reportados por el proveedor, proyección del estado
// vigente desde la auditoría y validación de notas.
package dian

import (
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/dian"
)

// LocalStatusFor traduce el dian_status del proveedor al estado electrónico
// local de la factura. Cualquier valor no reconocido se considera ENVIADA.
func LocalStatusFor(dianStatus string) string {
	switch dianStatus {
	case dian.DianStatusAceptado:
		return entity.ElectronicStatusAceptada
	case dian.DianStatusRechazado:
		return entity.ElectronicStatusRechazada
	case dian.DianStatusEnProceso:
		return entity.ElectronicStatusEnProceso
	default:
		return entity.ElectronicStatusEnviada
	}
}

// SubmissionStatus estado local tras un intento de envío.
func SubmissionStatus(success bool, dianStatus string) string {
	if !success {
		return entity.ElectronicStatusError
	}
	return LocalStatusFor(dianStatus)
}

// NoteStateAfterSubmission estados que recorre una nota tras un envío.
// Éxito: ENVIADO y además ACEPTADO si la DIAN ya aceptó. Fallo: RECHAZADO.
func NoteStateAfterSubmission(success bool, dianStatus string) []string {
	if !success {
		return []string{entity.NoteStateRechazado}
	}
	if dianStatus == dian.DianStatusAceptado {
		return []string{entity.NoteStateEnviado, entity.NoteStateAceptado}
	}
	return []string{entity.NoteStateEnviado}
}

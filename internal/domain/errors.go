package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrAlreadyInvoiced    = errors.New("ítem de orden ya facturado")
	ErrNumberingExhausted = errors.New("numeración agotada o vencida")

	// ErrReferenceNotFound la factura referenciada por una nota no tiene registro
	// electrónico exitoso (sin UUID del proveedor no se puede enlazar la nota).
	ErrReferenceNotFound = errors.New("no se encontró información de factura electrónica referenciada")
)

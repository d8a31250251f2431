package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// Options comportamiento común de los handlers.
type Options struct {
	// HideInternalErrors oculta el detalle de los 500 (producción).
	HideInternalErrors bool
	Log                zerolog.Logger
}

// writeError traduce errores de dominio a status HTTP + dto.ErrorResponse.
func writeError(c *fiber.Ctx, opts Options, err error) error {
	switch {
	case errors.Is(err, domain.ErrReferenceNotFound):
		// mismo cuerpo que un envío fallido: el cliente lo trata igual
		return c.Status(fiber.StatusBadRequest).JSON(dto.SendResult{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyInvoiced):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_INVOICED", Message: err.Error()})
	case errors.Is(err, domain.ErrNumberingExhausted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NUMBERING_EXHAUSTED", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	}

	opts.Log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).
		Interface("request_id", c.Locals("requestid")).Msg("error interno")
	msg := err.Error()
	if opts.HideInternalErrors {
		msg = "error interno del servidor"
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}

package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// los campos se reportan con su nombre JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindAndValidate parsea el cuerpo en dst y lo valida. Si devuelve false la
// respuesta de error ya fue escrita.
func bindAndValidate(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  fields,
		})
	}
	return true, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "campo requerido"
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("debe ser mayor a %s", strings.TrimSuffix(fe.Param(), ".0"))
	case "min":
		return fmt.Sprintf("mínimo %s elemento(s)", fe.Param())
	case "max":
		return fmt.Sprintf("máximo %s caracteres", fe.Param())
	case "datetime":
		return "fecha inválida (use AAAA-MM-DD)"
	default:
		return fmt.Sprintf("no cumple la regla %q", fe.Tag())
	}
}

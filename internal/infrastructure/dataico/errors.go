package dataico

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// FieldError error estructurado devuelto por DataIco: {"path":["customer"],"error":"..."}.
type FieldError struct {
	Path  []string `json:"path"`
	Error string   `json:"error"`
}

// String formato "[customer]: invalid email"; rutas compuestas se unen con punto.
func (e FieldError) String() string {
	if len(e.Path) == 0 {
		return e.Error
	}
	return fmt.Sprintf("[%s]: %s", strings.Join(e.Path, "."), e.Error)
}

// ErrorMessage mensaje para el usuario: errores estructurados unidos por "; ",
// si no hay, el message del proveedor y por último uno genérico.
func (r *Result) ErrorMessage() string {
	if r.Success {
		return ""
	}
	if len(r.Errors) > 0 {
		parts := make([]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			parts = append(parts, e.String())
		}
		return strings.Join(parts, "; ")
	}
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("Error al enviar el documento al proveedor (HTTP %d)", r.StatusCode)
}

// parseErrorBody extrae message y errors de un cuerpo de error. Tolera errors
// como arreglo de objetos, de strings o como objeto campo → mensaje(s).
func parseErrorBody(body []byte) (string, []FieldError) {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body)), nil
	}
	root := gjson.ParseBytes(body)
	message := root.Get("message").String()
	if message == "" {
		message = root.Get("error").String()
	}

	var errs []FieldError
	list := root.Get("errors")
	switch {
	case list.IsArray():
		list.ForEach(func(_, item gjson.Result) bool {
			if item.Type == gjson.String {
				errs = append(errs, FieldError{Error: item.String()})
				return true
			}
			fe := FieldError{Error: item.Get("error").String()}
			if fe.Error == "" {
				fe.Error = item.Get("message").String()
			}
			path := item.Get("path")
			if path.IsArray() {
				path.ForEach(func(_, p gjson.Result) bool {
					fe.Path = append(fe.Path, p.String())
					return true
				})
			} else if path.Exists() {
				fe.Path = []string{path.String()}
			}
			errs = append(errs, fe)
			return true
		})
	case list.IsObject():
		list.ForEach(func(key, val gjson.Result) bool {
			if val.IsArray() {
				val.ForEach(func(_, m gjson.Result) bool {
					errs = append(errs, FieldError{Path: []string{key.String()}, Error: m.String()})
					return true
				})
				return true
			}
			errs = append(errs, FieldError{Path: []string{key.String()}, Error: val.String()})
			return true
		})
	}
	return message, errs
}

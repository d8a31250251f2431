// Package location normaliza los campos de dirección/ubicación de terceros.
//
// En la base histórica estos campos llegan en tres formas:
//
//	Medellín                                   texto plano
//	{"codigo":"05001","nombre":"Medellín"}    objeto JSON (o string JSON)
//	codigo: 05001, nombre: Medellín            notación clave-valor heredada
//
// Parse resuelve la forma una sola vez (al leer de la base) y Field extrae un
// campo por clave con respaldo al texto original.
package location

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind forma en la que llegó el valor almacenado.
type Kind int

const (
	KindEmpty Kind = iota
	KindRaw
	KindJSON
	KindLegacy
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindRaw:
		return "raw"
	case KindJSON:
		return "json"
	case KindLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value valor de ubicación ya resuelto.
type Value struct {
	Kind   Kind
	Raw    string            // texto tal como se almacenó
	Fields map[string]string // solo para KindJSON y KindLegacy; claves en minúscula
}

// Parse detecta la codificación del texto almacenado.
func Parse(s string) Value {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Value{Kind: KindEmpty}
	}
	if v, ok := parseJSON(raw); ok {
		return v
	}
	if fields, ok := parseLegacy(raw); ok {
		return Value{Kind: KindLegacy, Raw: raw, Fields: fields}
	}
	return Value{Kind: KindRaw, Raw: raw}
}

// Field devuelve el campo key. Para texto plano devuelve el texto completo;
// para objetos sin la clave devuelve "".
func (v Value) Field(key string) string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindJSON, KindLegacy:
		return v.Fields[strings.ToLower(key)]
	default:
		return v.Raw
	}
}

// FirstField devuelve el primer campo no vacío entre keys.
func (v Value) FirstField(keys ...string) string {
	for _, k := range keys {
		if f := v.Field(k); f != "" {
			return f
		}
	}
	return ""
}

// String devuelve el texto original.
func (v Value) String() string { return v.Raw }

// IsZero indica si no hay valor almacenado.
func (v Value) IsZero() bool { return v.Kind == KindEmpty }

// CleanDataValue extrae key de un valor almacenado en cualquiera de las tres
// formas. Aplicado a un texto ya limpio lo devuelve sin cambios.
func CleanDataValue(s, key string) string {
	return Parse(s).Field(key)
}

// Scan implementa sql.Scanner: el valor se resuelve al leerlo de la base.
func (v *Value) Scan(src any) error {
	switch t := src.(type) {
	case nil:
		*v = Value{Kind: KindEmpty}
	case string:
		*v = Parse(t)
	case []byte:
		*v = Parse(string(t))
	default:
		return fmt.Errorf("location: tipo no soportado %T", src)
	}
	return nil
}

// Value implementa driver.Valuer: se persiste el texto original.
func (v Value) Value() (driver.Value, error) {
	if v.Kind == KindEmpty {
		return nil, nil
	}
	return v.Raw, nil
}

// ── JSON ──────────────────────────────────────────────────────────────────────

func parseJSON(raw string) (Value, bool) {
	switch raw[0] {
	case '{':
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return Value{}, false
		}
		fields := make(map[string]string, len(obj))
		for k, val := range obj {
			fields[strings.ToLower(strings.TrimSpace(k))] = stringify(val)
		}
		return Value{Kind: KindJSON, Raw: raw, Fields: fields}, true
	case '"':
		// string JSON: "\"{...}\"" o "\"Medellín\"" (doble codificación)
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err != nil {
			return Value{}, false
		}
		return Parse(inner), true
	default:
		return Value{}, false
	}
}

func stringify(val any) string {
	switch t := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ── Notación heredada ─────────────────────────────────────────────────────────

// parseLegacy reconoce pares clave-valor separados por coma, punto y coma o
// salto de línea, con separador "=>", "=" o ":". Acepta llaves o corchetes
// envolventes y claves al estilo "[clave] => valor". Todas las partes deben
// tener forma de par y la clave debe ser un identificador; si no, es texto plano.
func parseLegacy(raw string) (map[string]string, bool) {
	body := strings.TrimSpace(raw)
	if strings.HasPrefix(body, "Array") {
		body = strings.TrimSpace(strings.TrimPrefix(body, "Array"))
	}
	body = trimWrapping(body, '{', '}')
	body = trimWrapping(body, '(', ')')

	parts := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	if len(parts) == 0 {
		return nil, false
	}
	fields := make(map[string]string, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key, val, ok := splitPair(p)
		if !ok {
			return nil, false
		}
		fields[key] = val
	}
	if len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

func splitPair(p string) (key, val string, ok bool) {
	idx, sepLen := -1, 0
	for _, sep := range []string{"=>", "=", ":"} {
		if i := strings.Index(p, sep); i > 0 && (idx == -1 || i < idx) {
			idx, sepLen = i, len(sep)
		}
	}
	if idx <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(p[:idx])
	key = strings.Trim(key, `[]"'`)
	if !isIdentifier(key) {
		return "", "", false
	}
	val = strings.TrimSpace(p[idx+sepLen:])
	val = strings.Trim(val, `"'`)
	return strings.ToLower(key), strings.TrimSpace(val), true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	first := s[0]
	return !(first >= '0' && first <= '9')
}

func trimWrapping(s string, open, close byte) string {
	if len(s) >= 2 && s[0] == open && s[len(s)-1] == close {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

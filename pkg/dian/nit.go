package dian

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos del dígito de verificación NIT (Orden Administrativa 4 de 1989, DIAN),
// aplicados de derecha a izquierda sobre el número base.
var nitWeights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// ComputeNITVerificationDigit calcula el dígito de verificación de un NIT.
// Acepta puntos, espacios y guiones ("900.123.456"); no debe incluir el DV.
func ComputeNITVerificationDigit(nit string) (int, error) {
	digits := OnlyDigits(nit)
	if digits == "" {
		return 0, fmt.Errorf("dian: NIT vacío")
	}
	if len(digits) > len(nitWeights) {
		return 0, fmt.Errorf("dian: NIT demasiado largo (%d dígitos)", len(digits))
	}
	var sum int
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * nitWeights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return remainder, nil
	}
	return 11 - remainder, nil
}

// SplitNIT separa "900123456-7" en número base y DV. Si no hay guion el DV es vacío.
func SplitNIT(nit string) (base, dv string) {
	nit = strings.TrimSpace(nit)
	if i := strings.LastIndex(nit, "-"); i > 0 {
		return OnlyDigits(nit[:i]), OnlyDigits(nit[i+1:])
	}
	return OnlyDigits(nit), ""
}

// OnlyDigits elimina todo carácter que no sea dígito.
func OnlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, s)
}

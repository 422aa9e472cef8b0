// Package dian utilidades de identificación tributaria colombiana.
package dian

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// pesos del módulo 11 de la DIAN, aplicados de derecha a izquierda sobre el número base.
var nitWeights = [...]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

var ErrInvalidNIT = errors.New("dian: NIT inválido")

// CheckDigit calcula el dígito de verificación del número base (puntos y espacios se ignoran).
func CheckDigit(base string) (byte, error) {
	digits := onlyDigits(base)
	if len(digits) == 0 || len(digits) > len(nitWeights) {
		return 0, fmt.Errorf("%w: %d dígitos", ErrInvalidNIT, len(digits))
	}
	var sum int
	for i := range digits {
		sum += int(digits[len(digits)-1-i]-'0') * nitWeights[i]
	}
	if r := sum % 11; r > 1 {
		return byte('0' + 11 - r), nil
	}
	return byte('0' + sum%11), nil
}

// ValidateTaxID valida el dígito de verificación cuando viene separado por guión ("900123456-8").
// Un número sin guión (cédula o NIT sin DV) se acepta tal cual.
func ValidateTaxID(taxID string) error {
	base, dv, ok := strings.Cut(strings.TrimSpace(taxID), "-")
	if !ok {
		if len(onlyDigits(base)) == 0 {
			return fmt.Errorf("%w: sin dígitos", ErrInvalidNIT)
		}
		return nil
	}
	dv = strings.TrimSpace(dv)
	if len(dv) != 1 || !unicode.IsDigit(rune(dv[0])) {
		return fmt.Errorf("%w: dígito de verificación %q", ErrInvalidNIT, dv)
	}
	want, err := CheckDigit(base)
	if err != nil {
		return err
	}
	if dv[0] != want {
		return fmt.Errorf("%w: dígito de verificación esperado %c, recibido %s", ErrInvalidNIT, want, dv)
	}
	return nil
}

func onlyDigits(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			out = append(out, byte(r))
		case r == '.' || r == ' ':
		default:
			return nil
		}
	}
	return out
}

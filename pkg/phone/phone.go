package phone

import (
	"errors"
	"strings"
)

// ErrInvalid indica que el número no corresponde a ningún formato aceptado.
var ErrInvalid = errors.New("phone: número inválido")

// CountryPrefix prefijo internacional de Etiopía.
const CountryPrefix = "+251"

// Normalize convierte un número etíope a formato internacional: las formas
// locales con cero inicial (09…, 07…) se reescriben como +251…, las formas ya
// internacionales se conservan. Separadores habituales (espacios, guiones,
// paréntesis) se descartan antes de validar.
//
//	"0912345678"     -> "+251912345678"
//	"0712 34 56 78"  -> "+251712345678"
//	"+251912345678"  -> "+251912345678"
func Normalize(raw string) (string, error) {
	s := stripSeparators(raw)
	if s == "" {
		return "", ErrInvalid
	}

	switch {
	case strings.HasPrefix(s, "+"):
		if strings.HasPrefix(s, CountryPrefix) && isLocalNine(s[len(CountryPrefix):]) {
			return s, nil
		}
		return "", ErrInvalid
	case strings.HasPrefix(s, "251") && isLocalNine(s[len("251"):]):
		return "+" + s, nil
	case strings.HasPrefix(s, "0") && isLocalNine(s[1:]):
		return CountryPrefix + s[1:], nil
	case isLocalNine(s):
		return CountryPrefix + s, nil
	default:
		return "", ErrInvalid
	}
}

// isLocalNine valida la parte nacional: nueve dígitos que empiezan por 9 (móvil)
// o 7 (segunda banda móvil).
func isLocalNine(s string) bool {
	if len(s) != 9 {
		return false
	}
	if s[0] != '9' && s[0] != '7' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

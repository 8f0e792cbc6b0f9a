package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate instancia única del validador para los DTOs de entrada.
// Los mensajes usan el nombre del tag json, no el del campo Go.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct valida un DTO según sus tags `validate` y devuelve un mapa
// campo -> mensaje. Devuelve nil si el DTO es válido.
func Struct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = message(fe)
		}
		return out
	}
	return map[string]string{"payload": "payload inválido"}
}

func message(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "min":
		if fe.Kind() == reflect.String {
			return "debe tener al menos " + param + " caracteres"
		}
		return "debe ser al menos " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "debe tener como máximo " + param + " caracteres"
		}
		return "debe ser como máximo " + param
	case "len":
		return "debe tener exactamente " + param + " caracteres"
	case "oneof":
		return "debe ser uno de: " + strings.Join(strings.Fields(param), ", ")
	case "uuid":
		return "debe ser un UUID válido"
	case "gt":
		return "debe ser mayor que " + param
	case "gte":
		return "debe ser mayor o igual que " + param
	case "dive":
		return "contiene elementos inválidos"
	default:
		return fmt.Sprintf("no cumple la regla '%s'", fe.Tag())
	}
}

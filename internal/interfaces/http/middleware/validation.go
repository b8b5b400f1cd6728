package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var setupOnce sync.Once

// SetupValidator configures gin's validator: form tag names in errors and
// the SRI format tags identificacion, ruc, numdoc, periodo, serie and decimal.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})
		for tag, fn := range customValidations {
			_ = v.RegisterValidation(tag, fn)
		}
	})
}

var customValidations = map[string]validator.Func{
	"identificacion": stringRule(sri.ValidIdentificacion),
	"ruc":            stringRule(sri.ValidRUC),
	"numdoc":         stringRule(sri.ValidNumeroDocumento),
	"periodo":        stringRule(sri.ValidPeriodoFiscal),
	"serie":          stringRule(sri.ValidCodigoSerie),
	"decimal": stringRule(func(s string) bool {
		_, err := decimal.NewFromString(strings.TrimSpace(s))
		return err == nil
	}),
}

func stringRule(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return ok(fl.Field().String())
	}
}

// BindingErrors converts a form binding error into per-field messages
func BindingErrors(err error) shared.FieldErrors {
	fields := shared.FieldErrors{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			fields.Add(fieldPath(e), validationMessage(e))
		}
		return fields
	}
	fields.Add("_form", "Datos del formulario no válidos")
	return fields
}

// BindingError converts a form binding error into a validation DomainError
func BindingError(err error) error {
	return BindingErrors(err).Err("Revise los datos ingresados")
}

// fieldPath turns "CompraForm.detalles[0].cantidad" into "detalles.0.cantidad",
// the key format used by service validation.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.NewReplacer("[", ".", "]", "").Replace(ns)
	return ns
}

// validationMessage returns a human-readable validation message in Spanish
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Campo requerido"
	case "email":
		return "Correo electrónico no válido"
	case "min":
		if e.Kind() == reflect.String {
			return "Debe tener al menos " + e.Param() + " caracteres"
		}
		if e.Kind() == reflect.Slice {
			return "Debe agregar al menos " + e.Param() + " línea(s)"
		}
		return "Debe ser mayor o igual a " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Debe tener máximo " + e.Param() + " caracteres"
		}
		return "Debe ser menor o igual a " + e.Param()
	case "len":
		return "Debe tener exactamente " + e.Param() + " caracteres"
	case "oneof":
		return "Seleccione una opción válida"
	case "gte":
		return "Debe ser mayor o igual a " + e.Param()
	case "lte":
		return "Debe ser menor o igual a " + e.Param()
	case "gt":
		return "Debe ser mayor a " + e.Param()
	case "lt":
		return "Debe ser menor a " + e.Param()
	case "nefield":
		return "Debe ser distinto de " + e.Param()
	case "numeric", "decimal":
		return "Debe ser un número"
	case "datetime":
		return "Fecha no válida"
	case "identificacion":
		return "Cédula o RUC no válido"
	case "ruc":
		return "RUC no válido"
	case "numdoc":
		return "Formato esperado 001-001-000000001"
	case "periodo":
		return "Formato esperado MM/AAAA"
	case "serie":
		return "Debe tener exactamente 3 dígitos"
	default:
		return "Valor no válido"
	}
}

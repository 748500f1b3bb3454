package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/leadflow-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate aplica las etiquetas `validate` de s. El error envuelve
// domain.ErrInvalidInput y su texto nombra los campos ofensores.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" es requerido")
		case "oneof":
			msgs = append(msgs, field+" debe ser uno de: "+strings.ReplaceAll(fe.Param(), " ", ", "))
		case "email":
			msgs = append(msgs, field+" debe ser un email válido")
		case "min", "max":
			msgs = append(msgs, field+" fuera de rango ("+fe.Tag()+"="+fe.Param()+")")
		default:
			msgs = append(msgs, field+" es inválido")
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
}

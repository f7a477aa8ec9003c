package fiber

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lborres/dailydiet/core"
)

// structValidator plugs go-playground/validator into fiber's binder.
type structValidator struct {
	validate *validator.Validate
}

func newStructValidator() *structValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &structValidator{validate: v}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Validate reports the first failing field. An invalid email wraps
// ErrInvalidEmail, everything else wraps ErrValidation.
func (v *structValidator) Validate(out any) error {
	err := v.validate.Struct(out)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", core.ErrValidation, err)
	}

	fe := verrs[0]
	if fe.Tag() == "email" {
		return invalidInput(core.ErrInvalidEmail, fe.Field()+" must be a valid email")
	}
	return invalidInput(core.ErrValidation, fe.Field()+" is "+fe.Tag())
}

// mealID checks a path parameter is a UUID.
func (v *structValidator) mealID(id string) error {
	if err := v.validate.Var(id, "required,uuid"); err != nil {
		return invalidInput(core.ErrValidation, "id must be a uuid")
	}
	return nil
}

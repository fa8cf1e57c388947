// Package validation checks user input at the system boundary and audits
// stored data for inconsistencies.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// "Local" is accepted on top of IANA names
	_ = v.RegisterValidation("tzname", func(fl validator.FieldLevel) bool {
		return utils.ValidateTimezone(fl.Field().String())
	})
	return v
}

// Habit validates a habit before it is stored. Defaults should be applied first.
func Habit(h models.Habit) error {
	if strings.TrimSpace(h.Name) == "" {
		return apperrors.Invalid("name: must not be blank")
	}
	return check(h)
}

// CheckIn validates a check-in before it is stored.
func CheckIn(c models.CheckIn) error {
	return check(c)
}

// Settings validates application settings.
func Settings(s models.Settings) error {
	return check(s)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Invalid("%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.Invalid("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", field)
	case "min":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s: must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s: must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", field, fe.Param())
	case "hexcolor":
		return fmt.Sprintf("%s: must be a hex color such as #5B8DEF", field)
	case "tzname":
		return fmt.Sprintf("%s: unknown timezone %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s: failed %s check", field, fe.Tag())
	}
}

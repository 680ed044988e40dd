package validator

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the shop's custom rules
type Validator struct {
	validate *validator.Validate
}

// New creates a new validator with custom rules registered
func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerCustomRules()

	return v
}

// Validate validates struct tags and returns ValidationErrors on failure
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) registerCustomRules() {
	// Room numbers are digits only (e.g. "101"); they form half of the
	// student login identity "<name>-<room_number>".
	v.validate.RegisterValidation("room_number", func(fl validator.FieldLevel) bool {
		room := fl.Field().String()
		if len(room) == 0 || len(room) > 10 {
			return false
		}
		for _, r := range room {
			if !unicode.IsDigit(r) {
				return false
			}
		}
		return true
	})
}

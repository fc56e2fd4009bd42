package validator

import (
	"regexp"

	playground "github.com/go-playground/validator/v10"

	apperrors "github.com/jwalitptl/care-console/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Rule is a single check on one value. Tag uses go-playground validator syntax.
type Rule struct {
	Value   interface{}
	Tag     string
	Message string
}

// Validator evaluates ordered rule lists and reports only the first failure.
type Validator interface {
	First(rules ...Rule) error
}

type validator struct {
	v *playground.Validate
}

func New() Validator {
	v := playground.New()
	// The console accepts exactly the addresses its forms have always accepted,
	// which is narrower than the library's RFC 5322 "email" tag.
	_ = v.RegisterValidation("contact_email", func(fl playground.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &validator{v: v}
}

// First returns a validation AppError carrying the message of the first failing rule.
func (v *validator) First(rules ...Rule) error {
	for _, rule := range rules {
		if err := v.v.Var(rule.Value, rule.Tag); err != nil {
			return apperrors.NewValidation(rule.Message)
		}
	}
	return nil
}

// Required is shorthand for a non-empty check.
func Required(value interface{}, message string) Rule {
	return Rule{Value: value, Tag: "required", Message: message}
}

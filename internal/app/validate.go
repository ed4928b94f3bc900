package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks errors caused by bad caller input.
var ErrValidation = errors.New("invalid input")

var validate = validator.New()

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// validateStruct runs the struct tags on v and reports the first failing
// field as an ErrValidation.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		name := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		if fe.Param() != "" {
			return invalidf("%s failed %s=%s", name, fe.Tag(), fe.Param())
		}
		return invalidf("%s failed %s", name, fe.Tag())
	}
	return err
}

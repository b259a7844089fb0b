package domain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateStruct runs the struct tag rules and converts the first failure
// into a *ValidationError.
func validateStruct(s any, messages map[string]string) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()]
	if !ok {
		msg = fmt.Sprintf("failed %q rule", fe.Tag())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

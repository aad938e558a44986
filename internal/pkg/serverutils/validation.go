package serverutils

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// ValidateRequest runs the struct's validate tags. The returned error is a
// validator.ValidationErrors when a field fails.
func ValidateRequest(req any) error {
	return validatorInstance().Struct(req)
}

// FailedFields lists the JSON-ish field names that failed validation.
func FailedFields(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, strings.ToLower(fe.Field()[:1])+fe.Field()[1:])
	}
	return out
}

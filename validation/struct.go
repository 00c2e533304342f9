package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/signup/errors"
)

var (
	structValidator *validator.Validate
	structOnce      sync.Once
)

func getValidator() *validator.Validate {
	structOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("regemail", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		structValidator = v
	})
	return structValidator
}

// Violation describes one failed struct tag.
type Violation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Validate checks s against its `validate` tags. A failure is returned as
// an INVALID_INPUT AppError whose details list every violation.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.InvalidInput(err.Error())
	}

	violations := make([]Violation, 0, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, Violation{Field: fe.Field(), Rule: fe.Tag()})
		names = append(names, fe.Field())
	}
	return errors.InvalidInput(strings.Join(names, ", ")).WithDetail("violations", violations)
}

package scorer

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is wrapped by every error caused by malformed articles,
// preferences or counters.
var ErrInvalidInput = errors.New("invalid input")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// NaN fails gte already; finite also rejects infinities.
		_ = validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		})
	})
	return validate
}

func validateInput(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s: failed %s check (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(messages, "; "))
}

// ValidatePreferences reports whether p can be scored against.
func ValidatePreferences(p *Preferences) error {
	if p == nil {
		return fmt.Errorf("%w: nil preferences", ErrInvalidInput)
	}
	return validateInput(p)
}

// ValidateArticle reports whether a can be scored.
func ValidateArticle(a *Article) error {
	if a == nil {
		return fmt.Errorf("%w: nil article", ErrInvalidInput)
	}
	return validateInput(a)
}

package pricing

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"order-pricing-api/internal/models"
)

// FieldError describes one rejected field on one line
type FieldError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ValidationError collects every field error found across a list of lines
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "line item validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("line %d: %s", f.Line, f.Message))
	}
	return "line item validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err is, or wraps, a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	lineValidator     *validator.Validate
	lineValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	lineValidatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		})
		lineValidator = v
	})
	return lineValidator
}

// Validate runs the strict rule set over lines and returns a *ValidationError
// listing every violation, or nil. Quantities and prices must be finite and
// non-negative, a provided factor must be positive, provided percentages must
// lie within 0-100 and provided flat amounts must be non-negative.
//
// Compute does not call Validate; callers opt into it.
func Validate(lines []models.LineItem) error {
	v := getValidator()

	var fields []FieldError
	for i := range lines {
		err := v.Struct(&lines[i])
		if err == nil {
			continue
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Line:    i + 1,
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Value:   fmt.Sprintf("%v", fe.Value()),
				Message: fieldMessage(fe),
			})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "finite":
		return fmt.Sprintf("%s must be a finite number", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

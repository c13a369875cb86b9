package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apierrors "rn518panel/internal/errors"
	"rn518panel/internal/indicators"
)

var periodLabelPattern = regexp.MustCompile(`^\d{4}Q[1-4]$`)

const maxEntityIDLength = 64

// QueryValidator validates decoded query structs tagged with `query` names
type QueryValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewQueryValidator creates a validator with the panel's custom rules registered
func NewQueryValidator(logger *slog.Logger) *QueryValidator {
	v := validator.New()

	v.RegisterValidation("indicator", isIndicator)
	v.RegisterValidation("period_label", isPeriodLabel)
	v.RegisterValidation("entity_id", isEntityID)

	// Report query parameter names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "query_validator")),
	}
}

// ValidateStruct validates v and returns an APIError listing every invalid field
func (q *QueryValidator) ValidateStruct(v interface{}) error {
	err := q.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	q.logger.Debug("query validation failed", slog.Int("fields", len(validationErrors)))
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "indicator":
		return fmt.Sprintf("%s must be a known indicator field", field)
	case "period_label":
		return fmt.Sprintf("%s must look like 2024Q1", field)
	case "entity_id":
		return fmt.Sprintf("%s must be a non-blank operator id of at most %d characters", field, maxEntityIDLength)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isIndicator accepts catalog indicator fields
func isIndicator(fl validator.FieldLevel) bool {
	_, ok := indicators.Lookup(fl.Field().String())
	return ok
}

func isPeriodLabel(fl validator.FieldLevel) bool {
	return periodLabelPattern.MatchString(fl.Field().String())
}

// isEntityID accepts any non-blank id without control characters
func isEntityID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" || utf8.RuneCountInString(s) > maxEntityIDLength {
		return false
	}
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

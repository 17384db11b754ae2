package core

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"kjorefore/internal/types"
)

// Validator wraps go-playground/validator and translates validation
// failures into the application's error taxonomy.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator with the standard tag set plus the
// domain-specific latitude/longitude range tags.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	// latitude/longitude come built in with validator/v10 but register
	// aliases so struct tags read in domain terms.
	_ = v.RegisterValidation("lat", func(fl validator.FieldLevel) bool {
		val := fl.Field().Float()
		return val >= -90 && val <= 90
	})
	_ = v.RegisterValidation("lng", func(fl validator.FieldLevel) bool {
		val := fl.Field().Float()
		return val >= -180 && val <= 180
	})

	return &Validator{validate: v, logger: logger}
}

// ValidateStruct validates dst's struct tags. On failure it returns a
// *types.AppError with code "validation_invalid_request" carrying the first
// offending field in the details map.
func (v *Validator) ValidateStruct(dst interface{}) error {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"validation target must be a struct", err)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return types.NewAppErrorWithDetails(
			types.ErrCodeValidationInvalidRequest,
			"request validation failed",
			err,
			map[string]any{
				"field": strings.ToLower(fe.Field()),
				"rule":  fe.Tag(),
			},
		)
	}

	return types.NewAppError(types.ErrCodeValidationInvalidRequest,
		"request validation failed", err)
}

package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/alumnet/internal/app/feed"
	"github.com/yigit/alumnet/internal/app/models/dto"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules to gin's validator engine
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("feedcategory", validateFeedCategory)
	})
}

// fieldName reports fields by their query or JSON name
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

// validateFeedCategory accepts the dashboard tabs, case-insensitively
func validateFeedCategory(fl validator.FieldLevel) bool {
	_, err := feed.ParseCategory(fl.Field().String())
	return err == nil
}

// HandleValidationError converts a binding error into an error detail. Field
// errors are listed per field; anything else is reported as a malformed request.
func HandleValidationError(err error) *dto.ErrorDetail {
	errs := dto.NewValidationErrors()
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			errs.AddError(fe.Field(), formatValidationError(fe))
		}
	}
	if !errs.HasErrors() {
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(err.Error())
	}

	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
		WithSeverity(dto.ErrorSeverityWarning).
		WithDetails(errs.Errors)
	if len(errs.Errors) == 1 {
		detail = detail.WithField(errs.Errors[0].Field)
	}
	return detail
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "feedcategory":
		return e.Field() + " must be one of: All, Jobs, Events, Posts"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"livebooking/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so errors match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks the payload shape and the booking window relative to now.
func (o *DefaultBookingOrchestrator) validateRequest(req models.BookingRequest, now time.Time) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return NewValidationError(fe.Field(), describeTag(fe))
		}
		return NewValidationError("", err.Error())
	}

	earliest := now.Add(o.policy.MinAdvanceNotice)
	if req.StartTime.Before(earliest) {
		return NewValidationError("startTime",
			fmt.Sprintf("must be at least %d minutes in the future", int(o.policy.MinAdvanceNotice.Minutes())))
	}
	if o.policy.MaxAdvance > 0 && req.StartTime.After(now.Add(o.policy.MaxAdvance)) {
		return NewValidationError("startTime",
			fmt.Sprintf("must be within %d days", int(o.policy.MaxAdvance.Hours()/24)))
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

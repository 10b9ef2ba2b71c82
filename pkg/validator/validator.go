package validator

import (
	"time"

	"go-medical-scheduling/internal/domain/availability"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("hhmm", validateTimeOfDay)
	_ = v.RegisterValidation("date", validateDate)
	_ = v.RegisterValidation("weekday", validateWeekday)
	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "hhmm":
				errors[field] = field + " must be a time of day in HH:MM format"
			case "date":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "weekday":
				errors[field] = field + " must be a weekday such as MO or monday"
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := availability.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(availability.DateLayout, fl.Field().String())
	return err == nil
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, err := availability.ParseWeekday(fl.Field().String())
	return err == nil
}

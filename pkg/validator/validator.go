package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a validator with the domain rules registered.
func New() *CustomValidator {
	v := validator.New()

	// urgency accepts only the closed set the extraction model emits.
	v.RegisterValidation("urgency", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "高", "中", "低":
			return true
		}
		return false
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// utils/validation.go
package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"sareeledger-backend/models"
)

// RegisterValidators adds the domain tags to gin's binding validator:
// iso_date (YYYY-MM-DD), year_month (YYYY-MM) and preference_tag.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("iso_date", validISODate); err != nil {
		return err
	}
	if err := v.RegisterValidation("year_month", validYearMonth); err != nil {
		return err
	}
	return v.RegisterValidation("preference_tag", validPreferenceTag)
}

func validISODate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

func validYearMonth(fl validator.FieldLevel) bool {
	_, err := models.ParseYearMonth(fl.Field().String())
	return err == nil
}

func validPreferenceTag(fl validator.FieldLevel) bool {
	return models.IsPreferenceTag(fl.Field().String())
}

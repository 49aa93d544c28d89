package handlers

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the custom request validations to gin's validator.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		// No custom type func for decimal.Decimal: the validation reads the field directly.
		registerErr = v.RegisterValidation("decimal2", validateDecimal2)
	})
	return registerErr
}

// validateDecimal2 accepts money with at most two decimal places.
// Sign checks are left to allocation validation so they surface with a rule.
func validateDecimal2(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return value.Equal(value.Round(accounting.MoneyPlaces))
}

package service

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"backend-template/internal/domain"
)

// validationFailure converts ozzo validation errors into a domain.ValidationError.
func validationFailure(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for field, ferr := range fieldErrs {
			if ferr != nil {
				fields[field] = ferr.Error()
			}
		}
		return &domain.ValidationError{Fields: fields}
	}
	return fmt.Errorf("validate input: %w", err)
}

// priceScale is the number of fractional digits every backend stores exactly.
const priceScale = 2

var nonNegativeDecimal = validation.By(func(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal number")
	}
	if d.IsNegative() {
		return errors.New("must be no less than 0")
	}
	if !d.Equal(d.Truncate(priceScale)) {
		return fmt.Errorf("must have at most %d decimal places", priceScale)
	}
	return nil
})

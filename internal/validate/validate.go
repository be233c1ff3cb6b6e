// Package validate runs the client-side sanity checks a draft must pass
// before it is sent. A failure blocks the request and carries a message
// meant for the user.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// Error is a user-actionable validation failure.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsUserError reports whether err is a validation failure.
func IsUserError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

var checker *validator.Validate

func init() {
	checker = validator.New()

	// notblank: at least one non-space character
	_ = checker.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// isodate: "2024-01-31"
	_ = checker.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", strings.TrimSpace(fl.Field().String()))
		return err == nil
	})

	// amount=gt|gte|ne compares a typed amount with zero; blank reads as zero
	_ = checker.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		d, ok := amountOf(fl.Field().String())
		if !ok {
			return false
		}
		switch fl.Param() {
		case "gt":
			return d.IsPositive()
		case "gte":
			return !d.IsNegative()
		case "ne":
			return !d.IsZero()
		default:
			return false
		}
	})

	_ = checker.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		_, err := core.ParsePeriod(fl.Field().String())
		return err == nil
	})

	// ref: a positive whole-number identifier
	_ = checker.RegisterValidation("ref", func(fl validator.FieldLevel) bool {
		v, ok := core.ID(fl.Field().String()).Int64()
		return ok && v > 0
	})

	checker.RegisterStructValidation(budgetRange, budgetInput{})
}

// rule maps a failed field/tag pair to a message. Rules are listed in
// precedence order: the first one that failed is reported.
type rule struct {
	field   string
	tag     string
	message string
}

func check(in any, rules []rule) error {
	err := checker.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	failed := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed[fe.StructField()+"."+fe.Tag()] = true
	}
	for _, r := range rules {
		if failed[r.field+"."+r.tag] {
			return &Error{Field: r.field, Message: r.message}
		}
	}
	fe := fieldErrs[0]
	return &Error{Field: fe.StructField(), Message: fmt.Sprintf("%s is invalid", fe.Field())}
}

func amountOf(s string) (decimal.Decimal, bool) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, true
	}
	d, err := core.ParseAmount(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

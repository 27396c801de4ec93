package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// validate is a singleton validator instance
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags first, then the constraints that span fields.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, formatValidationError(err))
	}

	cv := newChecker("config")
	w := c.Coreness.Weights
	cv.positiveFloat("coreness.weights", w.CoreFraction+w.Degree+w.Betweenness)
	cv.when(c.Coreness.Promotion.Enabled, func(cv *checker) {
		cv.positiveFloat("coreness.promotion.floor", c.Coreness.Promotion.Floor)
	})
	cv.when(c.Policies.EarlyStop, func(cv *checker) {
		cv.finite("policies.stop.min_improvement", c.Policies.Stop.MinImprovement)
	})
	cv.custom("continuous", func() error {
		opts, err := c.ContinuousOptions()
		if err != nil {
			return err
		}
		return opts.Validate()
	})
	if err := cv.err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// formatValidationError reports the first failing field.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}

// checker collects cross-field validation errors.
type checker struct {
	name   string
	errors []error
}

func newChecker(name string) *checker {
	return &checker{name: name}
}

func (cv *checker) finite(field string, value float64) *checker {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %v must be finite", cv.name, field, value))
	}
	return cv
}

func (cv *checker) positiveFloat(field string, value float64) *checker {
	if !(value > 0) {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %v must be positive", cv.name, field, value))
	}
	return cv
}

func (cv *checker) custom(field string, fn func() error) *checker {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

func (cv *checker) when(condition bool, validations func(*checker)) *checker {
	if condition {
		validations(cv)
	}
	return cv
}

// err joins every collected error.
func (cv *checker) err() error {
	return errors.Join(cv.errors...)
}

package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

// rarityTiers is the message listing for the rarity tag.
const rarityTiers = "common rare super_rare treasure_hunt"

// requestValidator runs go-playground/validator on bound request bodies and
// reports failures by their JSON field names.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator returns the validator installed as echo.Echo.Validator.
func NewValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// An empty rarity is allowed and means untiered.
	_ = v.RegisterValidation("rarity", func(fl validator.FieldLevel) bool {
		return domain.Rarity(fl.Field().String()).Valid()
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "datetime":
		return field + " must be a YYYY-MM-DD date"
	case "rarity":
		return field + " must be one of: " + rarityTiers
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

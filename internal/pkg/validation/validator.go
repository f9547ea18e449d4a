package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/pkg/helpers"
)

var registerOnce sync.Once

// Register installs the custom rules on gin's default validator.
// It is safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = RegisterRules(v)
	})
	return err
}

// RegisterRules adds the role and isodate tags and reports JSON field names in errors
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonTagName)

	if err := v.RegisterValidation("role", validateRole); err != nil {
		return fmt.Errorf("register role rule: %w", err)
	}
	if err := v.RegisterValidation("isodate", validateISODate); err != nil {
		return fmt.Errorf("register isodate rule: %w", err)
	}
	return nil
}

func jsonTagName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

func validateRole(fl validator.FieldLevel) bool {
	return models.RoleType(fl.Field().String()).Valid()
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := helpers.ParseDate(fl.Field().String())
	return err == nil
}

package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"transit_ops/internal/models"
	"transit_ops/internal/policy"
)

// RegisterValidators adds the custom binding tags used by the request types:
// gtfstime (HH:MM:SS, hours up to 47) and role.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("gtfstime", func(fl validator.FieldLevel) bool {
		_, err := models.GTFSSeconds(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return policy.Role(fl.Field().String()).Valid()
	})
}

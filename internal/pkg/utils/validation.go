package utils

import (
	"github.com/go-playground/validator/v10"

	"fhirhub-service/internal/pkg/constvars"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("forward_auth", validateForwardAuth)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateForwardAuth(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", constvars.ForwardAuthNone, constvars.ForwardAuthAPIKey, constvars.ForwardAuthMTLS:
		return true
	}
	return false
}

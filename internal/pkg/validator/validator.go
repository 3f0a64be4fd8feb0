package validator

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Site status validation
	validate.RegisterValidation("site_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "active", "inactive":
			return true
		}
		return false
	})

	// Only absolute http(s) URLs can be visited
	validate.RegisterValidation("http_url", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		if err != nil || u.Host == "" {
			return false
		}
		return u.Scheme == "http" || u.Scheme == "https"
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": "Invalid request"}
	}

	errors := make(map[string]string)
	for _, err := range validationErrors {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "uuid":
			errors[field] = "Invalid identifier"
		case "ip":
			errors[field] = "Invalid IP address"
		case "http_url":
			errors[field] = "Invalid URL. Must be an absolute http or https URL"
		case "site_status":
			errors[field] = "Invalid status. Must be: active or inactive"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

package handler

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationMessages turns validator errors into a field -> message map
func validationMessages(err error) any {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	errors := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		tag := e.Tag()
		switch tag {
		case "required":
			errors[field] = "field is required"
		case "min":
			errors[field] = "must be at least " + e.Param() + " characters"
		case "max":
			errors[field] = "must be at most " + e.Param() + " characters"
		default:
			errors[field] = "validation failed on " + tag
		}
	}
	return errors
}

// Package validator holds the process-wide validator instance used to
// check inbound websocket frames before the gateway dispatches them.
package validator

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	return validate
}

// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/FatihBerkayBahceci/eye-book-sub002/internal/validation"
)

// AuthAttemptRequest contains the parameters for registering an authentication attempt.
type AuthAttemptRequest struct {
	ActorID   string `json:"actor_id"`
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	UserAgent string `json:"user_agent"`
}

// Validate checks if the auth attempt request is valid.
func (r *AuthAttemptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ActorID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// Package dto provides data transfer objects for credential HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/gw2proxy/internal/validation"
)

// SaveCredentialRequest contains the API key to store.
type SaveCredentialRequest struct {
	Key string `json:"key"`
}

// Validate checks if the save credential request is valid.
func (r *SaveCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key, customValidation.CredentialRules...),
	)
}

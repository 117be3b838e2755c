package dto

import "time"

// CreateCredentialRequest represents the credential creation request
type CreateCredentialRequest struct {
	Label  string   `json:"label" binding:"required"`
	Scopes []string `json:"scopes"`
}

// UpdateCredentialRequest changes label and/or scopes. Absent fields are kept.
type UpdateCredentialRequest struct {
	Label  *string  `json:"label"`
	Scopes []string `json:"scopes"`
}

type CredentialResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Scopes    []string  `json:"scopes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialCreateResponse includes the secret (only shown once)
type CredentialCreateResponse struct {
	CredentialResponse
	Secret string `json:"secret"`
}

type CredentialListResponse struct {
	Items []CredentialResponse `json:"items"`
}

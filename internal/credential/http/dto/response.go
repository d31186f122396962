package dto

// CredentialStatusResponse reports whether a usable API key is stored.
type CredentialStatusResponse struct {
	HasAPIKey bool `json:"hasApiKey"`
}

// ServerStatusResponse describes the running server and the credential state.
type ServerStatusResponse struct {
	Server    string `json:"server"`
	Port      int    `json:"port"`
	HasAPIKey bool   `json:"hasApiKey"`
}

package domain

// MissingCredentialCode is the error identifier reported to callers when no credential
// is configured.
const MissingCredentialCode = "MissingApiKey"

// MissingCredentialMessage is the human readable message paired with MissingCredentialCode.
const MissingCredentialMessage = "Guild Wars 2 API key not configured"

// MissingCredentialHowTo lists the remediation steps shown to callers.
var MissingCredentialHowTo = []string{
	"POST /apikey { key }",
	"or via RPC gw2.saveApiKey",
}

// MissingCredentialDetails is the structured payload describing a missing credential.
type MissingCredentialDetails struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	HowTo   []string `json:"howTo"`
}

// NewMissingCredentialDetails returns the payload shared by the HTTP and RPC front ends.
func NewMissingCredentialDetails() MissingCredentialDetails {
	howTo := make([]string, len(MissingCredentialHowTo))
	copy(howTo, MissingCredentialHowTo)
	return MissingCredentialDetails{
		Error:   MissingCredentialCode,
		Message: MissingCredentialMessage,
		HowTo:   howTo,
	}
}

package rpc

import "encoding/json"

const jsonRPCVersion = "2.0"

// JSON-RPC 2.0 standard error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Application error codes.
const (
	// CodeMissingCredential is returned when no usable API key is stored.
	CodeMissingCredential = -32001
	// CodeUpstreamUnavailable is returned when the upstream API could not be reached.
	CodeUpstreamUnavailable = -32002
)

// request is a JSON-RPC 2.0 request. A missing id is answered with a null id.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// response is a JSON-RPC 2.0 response. Exactly one of Result or Error is set.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

type saveKeyParams struct {
	Key *string `json:"key"`
}

type requestParams struct {
	Path  *string `json:"path"`
	Query string  `json:"query"`
}

type statusResult struct {
	Server    string `json:"server"`
	HasAPIKey bool   `json:"hasApiKey"`
}

type hasKeyResult struct {
	HasAPIKey bool `json:"hasApiKey"`
}

type okResult struct {
	OK bool `json:"ok"`
}

// shortcuts maps convenience methods to fixed upstream resource paths.
var shortcuts = map[string]string{
	"gw2.account":         "account",
	"gw2.wallet":          "account/wallet",
	"gw2.bank":            "account/bank",
	"gw2.materials":       "account/materials",
	"gw2.characters":      "characters",
	"gw2.commerce.prices": "commerce/prices",
}

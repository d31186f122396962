// Package rpc implements a line-delimited JSON-RPC 2.0 front end over a pair of
// streams, normally standard input and output.
package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	credentialDomain "github.com/allisson/gw2proxy/internal/credential/domain"
	credentialUseCase "github.com/allisson/gw2proxy/internal/credential/usecase"
	apperrors "github.com/allisson/gw2proxy/internal/errors"
	gatewayUseCase "github.com/allisson/gw2proxy/internal/gateway/usecase"
	"github.com/allisson/gw2proxy/internal/validation"
)

// maxLineSize bounds a single request line.
const maxLineSize = 1024 * 1024

var nullID = json.RawMessage("null")

// Server dispatches JSON-RPC requests to the credential store and the gateway.
// Requests are handled strictly one at a time.
type Server struct {
	credentialUseCase credentialUseCase.CredentialUseCase
	gatewayUseCase    gatewayUseCase.GatewayUseCase
	serverName        string
	logger            *slog.Logger
}

// NewServer creates a new RPC server. serverName is reported by gw2.getStatus.
func NewServer(
	credentialUseCase credentialUseCase.CredentialUseCase,
	gatewayUseCase gatewayUseCase.GatewayUseCase,
	serverName string,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		credentialUseCase: credentialUseCase,
		gatewayUseCase:    gatewayUseCase,
		serverName:        serverName,
		logger:            logger,
	}
}

// Run reads one request per line from input and writes exactly one response line to
// output before reading the next. It returns nil at end of input and ctx.Err() when
// ctx is cancelled between requests.
func (s *Server) Run(ctx context.Context, input io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	encoder := json.NewEncoder(output)
	encoder.SetEscapeHTML(false)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handleLine(ctx, line)
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	return scanner.Err()
}

func (s *Server) handleLine(ctx context.Context, line []byte) *response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse(nullID, &Error{Code: CodeParseError, Message: "parse error: " + err.Error()})
	}

	id := req.ID
	if len(id) == 0 {
		id = nullID
	}

	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		return errorResponse(id, &Error{Code: CodeInvalidRequest, Message: "unsupported JSON-RPC version"})
	}
	if req.Method == "" {
		return errorResponse(id, &Error{Code: CodeInvalidRequest, Message: "method is required"})
	}

	result, rpcErr := s.dispatch(ctx, &req)
	if rpcErr != nil {
		return errorResponse(id, rpcErr)
	}

	return &response{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

func (s *Server) dispatch(ctx context.Context, req *request) (any, *Error) {
	switch req.Method {
	case "gw2.getStatus":
		exists, err := s.credentialUseCase.Exists(ctx)
		if err != nil {
			return nil, s.mapError(req.Method, err)
		}
		return statusResult{Server: s.serverName, HasAPIKey: exists}, nil
	case "gw2.hasApiKey":
		exists, err := s.credentialUseCase.Exists(ctx)
		if err != nil {
			return nil, s.mapError(req.Method, err)
		}
		return hasKeyResult{HasAPIKey: exists}, nil
	case "gw2.saveApiKey":
		return s.handleSaveKey(ctx, req)
	case "gw2.deleteApiKey":
		if err := s.credentialUseCase.Delete(ctx); err != nil {
			return nil, s.mapError(req.Method, err)
		}
		return okResult{OK: true}, nil
	case "gw2.request":
		return s.handleRequest(ctx, req)
	}

	if path, ok := shortcuts[req.Method]; ok {
		return s.fetch(ctx, req.Method, path, "")
	}

	return nil, &Error{Code: CodeMethodNotFound, Message: "Method not found"}
}

func (s *Server) handleSaveKey(ctx context.Context, req *request) (any, *Error) {
	var params saveKeyParams
	if rpcErr := decodeParams(req.Params, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.Key == nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "key is required"}
	}
	if err := validation.ValidateCredential(*params.Key); err != nil {
		return nil, s.mapError(req.Method, err)
	}

	if err := s.credentialUseCase.Save(ctx, *params.Key); err != nil {
		return nil, s.mapError(req.Method, err)
	}
	return okResult{OK: true}, nil
}

func (s *Server) handleRequest(ctx context.Context, req *request) (any, *Error) {
	var params requestParams
	if rpcErr := decodeParams(req.Params, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.Path == nil || *params.Path == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "path is required"}
	}

	return s.fetch(ctx, req.Method, *params.Path, params.Query)
}

func (s *Server) fetch(ctx context.Context, method, path, query string) (any, *Error) {
	resp, err := s.gatewayUseCase.Fetch(ctx, path, query)
	if err != nil {
		return nil, s.mapError(method, err)
	}

	if !resp.IsSuccess() {
		return nil, &Error{
			Code:    resp.StatusCode,
			Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
			Data:    bodyValue(resp.Body),
		}
	}

	return bodyValue(resp.Body), nil
}

// mapError converts a use case error into a JSON-RPC error object.
func (s *Server) mapError(method string, err error) *Error {
	switch {
	case apperrors.Is(err, apperrors.ErrMissingCredential):
		return &Error{
			Code:    CodeMissingCredential,
			Message: "Missing API key",
			Data:    credentialDomain.NewMissingCredentialDetails(),
		}
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	case apperrors.Is(err, apperrors.ErrUpstreamTransport):
		s.logger.Warn("upstream unavailable", slog.String("method", method), slog.Any("error", err))
		return &Error{Code: CodeUpstreamUnavailable, Message: "upstream unavailable"}
	default:
		s.logger.Error("rpc request failed", slog.String("method", method), slog.Any("error", err))
		return &Error{Code: CodeInternalError, Message: http.StatusText(http.StatusInternalServerError)}
	}
}

// decodeParams unmarshals params into dst. Absent or null params leave dst unchanged.
func decodeParams(raw json.RawMessage, dst any) *Error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &Error{Code: CodeInvalidParams, Message: "invalid params: " + err.Error()}
	}
	return nil
}

// bodyValue embeds a JSON body as-is and any other body as a JSON string.
func bodyValue(body string) any {
	if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}

func errorResponse(id json.RawMessage, rpcErr *Error) *response {
	return &response{JSONRPC: jsonRPCVersion, ID: id, Error: rpcErr}
}

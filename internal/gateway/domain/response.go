// Package domain defines the upstream response envelope and path rules of the gateway.
package domain

import (
	"strings"
)

// DefaultContentType is reported when the upstream response carries no Content-Type.
const DefaultContentType = "application/json"

// Response is the normalized upstream response. Body, content type and status are
// passed to callers unmodified.
type Response struct {
	Body        string
	ContentType string
	StatusCode  int
}

// IsSuccess reports whether the upstream status is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NormalizePath strips leading slashes, rejects parent directory references and
// prefixes the versioned root segment when it is missing.
func NormalizePath(path, version string) (string, error) {
	path = strings.TrimLeft(path, "/")
	if strings.Contains(path, "..") {
		return "", ErrInvalidPath
	}

	prefix := strings.Trim(version, "/") + "/"
	if prefix != "/" && !strings.HasPrefix(path, prefix) {
		path = prefix + path
	}
	return path, nil
}

// NormalizeQuery drops a leading '?' so raw and URL-style query strings are accepted.
func NormalizeQuery(query string) string {
	return strings.TrimPrefix(query, "?")
}

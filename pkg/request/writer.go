package request

import (
	"errors"
	"net/http"
)

// ErrInternalServer is the body message for unexpected handler failures.
var ErrInternalServer = errors.New("internal server error")

// ClientWriter wraps a http.ResponseWriter and remembers the status code that
// was written, for use by metrics middleware after the handler returns.
type ClientWriter struct {
	http.ResponseWriter
	statusCode int
}

// NewClientWriter creates a new ClientWriter.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (c *ClientWriter) WriteHeader(statusCode int) {
	c.statusCode = statusCode
	c.ResponseWriter.WriteHeader(statusCode)
}

// StatusCode returns the status code that was written to the client.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}

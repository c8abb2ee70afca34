// Package responsewriter wraps http.ResponseWriter so middleware can
// observe the status code and body size of a response after the handler
// chain has run.
package responsewriter

import "net/http"

// ResponseWriter records the status code and byte count of whatever gets
// written through it, then forwards unchanged to the wrapped writer.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	written int
	wrote   bool
}

// Wrap returns a ResponseWriter around w, defaulting to 200 for callers
// that write a body without ever calling WriteHeader.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records statusCode and forwards it, ignoring any call after
// the first (matching http.ResponseWriter's own documented behavior).
func (rw *ResponseWriter) WriteHeader(statusCode int) {
	if rw.wrote {
		return
	}
	rw.wrote = true
	rw.status = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write implicitly sends a 200 header on first use if none was sent yet,
// then records and forwards the bytes.
func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if !rw.wrote {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// StatusCode returns the status code that was sent, or the 200 default if
// nothing has been written yet.
func (rw *ResponseWriter) StatusCode() int { return rw.status }

// BytesWritten returns the total number of body bytes written so far.
func (rw *ResponseWriter) BytesWritten() int { return rw.written }

// Unwrap exposes the underlying ResponseWriter, satisfying the
// http.ResponseController unwrap convention.
func (rw *ResponseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

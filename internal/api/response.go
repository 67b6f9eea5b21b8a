package api

import (
	"encoding/json"
	"net/http"

	"github.com/loopblock/loopblock/internal/logging"
	"github.com/pkg/errors"
)

// HeaderRequestID carries the ID assigned to each request by the Dispatcher.
const HeaderRequestID = "X-Request-ID"

// responseHeaders are set on every response unless a value is already present.
var responseHeaders = [][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Content-Type", "application/json"},
}

// Payload is the body of every response. Field order matches the order the
// keys appear on the wire.
type Payload struct {
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
	Status    string `json:"status,omitempty"`
}

// writeFailure is returned when the response could not be written, usually
// because the client went away. The status line may already be sent.
type writeFailure struct {
	err error
}

func (e *writeFailure) Error() string { return "failed to write response: " + e.err.Error() }
func (e *writeFailure) Cause() error  { return e.err }
func (e *writeFailure) Unwrap() error { return e.err }

// writeJSON writes a JSON response. It must be called at most once per request.
func writeJSON(w http.ResponseWriter, status int, p Payload) error {
	h := w.Header()
	for _, kv := range responseHeaders {
		if h.Get(kv[0]) == "" {
			h.Set(kv[0], kv[1])
		}
	}
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return &writeFailure{err: err}
	}
	return nil
}

// isWriteFailure reports whether err means the response body was lost.
func isWriteFailure(err error) bool {
	var wf *writeFailure
	return errors.As(err, &wf)
}

// writeInternalError writes the fixed 500 payload.
func writeInternalError(w http.ResponseWriter) error {
	return writeJSON(w, http.StatusInternalServerError, Payload{
		Error:     "Internal server error",
		Timestamp: logging.Now(),
		Status:    "error",
	})
}

package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxRequestBody = 1 << 20

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request to the client.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// APIError is an error with an HTTP status and a stable machine-readable code.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e APIError) Error() string { return e.Code }

// NewAPIError builds an APIError.
func NewAPIError(status int, code, message string) APIError {
	return APIError{Status: status, Code: code, Message: message}
}

var (
	ErrBadRequest   = APIError{Status: http.StatusBadRequest, Code: "bad_request"}
	ErrUnauthorized = APIError{Status: http.StatusUnauthorized, Code: "unauthorized"}
	ErrNotFound     = APIError{Status: http.StatusNotFound, Code: "not_found"}
	ErrInternal     = APIError{Status: http.StatusInternalServerError, Code: "internal_error"}
)

// JSON writes data inside the standard envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Data: data})
}

// Error writes err as an envelope. APIErrors keep their status and code;
// anything else becomes an opaque 500 so internal details stay out of
// responses.
func Error(w http.ResponseWriter, err error) {
	apiErr := ErrInternal
	var known APIError
	if errors.As(err, &known) {
		apiErr = known
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(Envelope{Error: &ErrorBody{
		Code:    apiErr.Code,
		Message: apiErr.Message,
	}})
}

// Decode reads a JSON request body into v, bounding the body size and
// rejecting unknown fields so typos fail loudly.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return NewAPIError(http.StatusBadRequest, "bad_request", "invalid request body")
	}
	return nil
}

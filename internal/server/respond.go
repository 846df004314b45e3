package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/cardsheet/pkg/errors"
)

var validate = validator.New()

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Code     errors.Code `json:"code"`
	Message  string      `json:"message"`
	Findings []string    `json:"findings,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// respondError maps err to a status code and writes it as JSON. Internal
// errors are logged and their details withheld from the client.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorResponse{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		body = errorResponse{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	s.respondJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.IsConfiguration(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeLayoutNotFound), errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body into v and runs struct validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
	}
	return nil
}

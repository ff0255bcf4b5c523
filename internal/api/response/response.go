package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/dom/task-tracker/internal/domain"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  string      `json:"status"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"Internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func Success(w http.ResponseWriter, code int, data interface{}) {
	JSON(w, code, Envelope{Status: StatusSuccess, Data: data})
}

func List(w http.ResponseWriter, results int, data interface{}) {
	JSON(w, http.StatusOK, Envelope{Status: StatusSuccess, Results: &results, Data: data})
}

// Message writes a success envelope that carries only a message.
func Message(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, Envelope{Status: StatusSuccess, Message: msg})
}

// Fail writes a failure envelope. 5xx codes are reported as "error".
func Fail(w http.ResponseWriter, code int, msg string) {
	status := StatusFail
	if code >= http.StatusInternalServerError {
		status = StatusError
	}
	JSON(w, code, Envelope{Status: status, Message: msg})
}

// Error is the single place where errors become responses. Anything that is
// not a domain error is logged and reported as a bare 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFromError(err)
	if code == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		Fail(w, code, "Internal server error")
		return
	}

	msg := domain.ClientMessage(err)
	if msg == "" {
		msg = http.StatusText(code)
	}
	hlog.FromRequest(r).Debug().Err(err).Int("status", code).Msg("request rejected")
	Fail(w, code, msg)
}

// StatusFromError maps domain error kinds to HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication), errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

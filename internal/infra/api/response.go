package api

import (
	"encoding/json"
	"net/http"

	"activation-service/internal/domain"
)

type errorBody struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// MessageCatalog localizes the end-user text of an error kind.
type MessageCatalog interface {
	ErrorMessage(acceptLanguage string, kind domain.ErrorKind) string
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, kind domain.ErrorKind) {
	msg := kind.Message()
	if s.opts.Messages != nil {
		msg = s.opts.Messages.ErrorMessage(r.Header.Get("Accept-Language"), kind)
	}
	writeJSON(w, statusFor(kind), errorBody{OK: false, Error: string(kind), Message: msg})
}

func statusFor(kind domain.ErrorKind) int {
	switch {
	case kind == domain.KindUnauthorized:
		return http.StatusUnauthorized
	case kind == domain.KindRateLimited:
		return http.StatusTooManyRequests
	case kind.IsValidation():
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

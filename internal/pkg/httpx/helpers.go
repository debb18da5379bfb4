package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lalitjoshi007/FMT/internal/pkg/serr"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func ReadJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

func WriteJSON(w http.ResponseWriter, status int, resp any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}

// WriteError writes a {"detail": msg} body with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	_ = WriteJSON(w, status, errorResponse{Detail: msg})
}

func HandleErr(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
		"remote_addr", r.RemoteAddr,
	}

	var se *serr.ServiceError
	if errors.As(err, &se) {
		for k, v := range se.Env {
			attrs = append(attrs, k, v)
		}

		if se.StatusCode >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "request error", attrs...)
		} else {
			slog.WarnContext(r.Context(), "request rejected", attrs...)
		}

		if se.StatusCode == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}

		WriteError(w, se.StatusCode, se.Msg)
		return
	}

	slog.ErrorContext(r.Context(), "request error", attrs...)
	WriteError(w, http.StatusInternalServerError, "Internal Server Error")
}

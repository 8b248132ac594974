package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// errorResponse is the JSON body of every error answer that has one.
type errorResponse struct {
	Error string `json:"error"`
}

const (
	msgInvalidKey  = "Hibás kulcs!"
	msgExists      = "Már létezik"
	msgBadRequest  = "Hibás kérés"
	msgInternalErr = "internal error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStatus answers with the bare status text, like an empty 200 "OK".
func writeStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, http.StatusText(status))
}

// decodeBody reads a JSON object from r into v. An empty body, or one sent
// with a content type other than application/json, leaves v untouched and
// is not an error.
func decodeBody(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			return nil
		}
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"

	"gradehub/internal/errs"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

func validID(id string) bool {
	return idPattern.MatchString(id)
}

func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service failure to exactly one response. An
// error without a kind is a 500 with the detail logged, never leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	switch errs.KindOf(err) {
	case errs.Invalid:
		writeError(w, http.StatusBadRequest, err.Error())
	case errs.Unauthorized:
		writeError(w, http.StatusUnauthorized, err.Error())
	case errs.Forbidden:
		writeError(w, http.StatusForbidden, err.Error())
	case errs.NotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case errs.Conflict:
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

package apphttp

import (
	"encoding/json"
	"net/http"

	"github.com/kawabatas/olympics-catalog/internal/app/usecase"
	"github.com/kawabatas/olympics-catalog/internal/domain/repository"
)

type errorResp struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Error: http.StatusText(status), Message: msg})
}

// statusFor maps a repository error kind onto an HTTP status.
func statusFor(kind repository.Kind) int {
	switch kind {
	case repository.KindNone:
		return http.StatusOK
	case repository.KindNotFound:
		return http.StatusNotFound
	case repository.KindIntegrityViolation:
		return http.StatusConflict
	case repository.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeRepoError(w http.ResponseWriter, err error, msg string) {
	writeError(w, statusFor(repository.KindOf(err)), msg)
}

func writeOutcome(w http.ResponseWriter, okStatus int, out usecase.Outcome) {
	switch {
	case out.OK:
		writeJSON(w, okStatus, out)
	case out.Invalid:
		writeError(w, http.StatusBadRequest, out.Message)
	default:
		writeError(w, statusFor(out.Kind), out.Message)
	}
}

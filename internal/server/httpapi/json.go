package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cardsmith/cardsmith/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

func kindBody(kind, msg string) errResponse {
	return errResponse{Error: msg, Kind: kind}
}

// statusFor maps a service error to an HTTP status, a machine-readable kind,
// and a client-safe message. Provider and dependency failures deliberately
// hide upstream details and suggest a remediation instead.
func statusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, common.ErrEmptyInput):
		return http.StatusBadRequest, "empty_input", "document is empty"
	case errors.Is(err, common.ErrUnsupportedFormat):
		return http.StatusBadRequest, "unsupported_format", "unsupported document format: upload a PDF, PNG, JPEG or GIF file"
	case errors.Is(err, common.ErrCorruptInput):
		return http.StatusBadRequest, "corrupt_input", "document could not be read: the file appears to be corrupt"
	case errors.Is(err, common.ErrValidation):
		return http.StatusUnprocessableEntity, "validation", err.Error()
	case errors.Is(err, common.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "dependency_unavailable", "document processing is temporarily unavailable, contact support if this persists"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "unauthorized"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	}

	var pe *common.ProviderError
	if errors.As(err, &pe) {
		kind := "provider_" + string(pe.Kind)
		switch pe.Kind {
		case common.ProviderRateLimited:
			return http.StatusTooManyRequests, kind, "flashcard generation is rate limited, try again later"
		case common.ProviderTimeout:
			return http.StatusGatewayTimeout, kind, "flashcard generation timed out, try again later"
		default:
			return http.StatusBadGateway, kind, "flashcard generation failed upstream, try again later"
		}
	}

	return http.StatusInternalServerError, "internal", "internal error"
}

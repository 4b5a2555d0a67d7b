package errors

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter handles error presentation and status code determination
// for the HTTP surface.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter with an optional slog logger.
// If logger is nil, the default package logger is used.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse represents a standard JSON error payload.
type HTTPErrorResponse struct {
	Error     string         `json:"error"`
	Code      string         `json:"code,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
}

// StatusCodeFor determines the HTTP status code for a given error based on
// its classification. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if afe, ok := err.(*AppForgeError); ok {
		switch afe.Category {
		case CategoryValidation, CategoryConfig:
			return http.StatusBadRequest
		case CategoryAuth:
			return http.StatusForbidden
		case CategoryNetwork, CategoryForge:
			return http.StatusBadGateway
		case CategoryGeneration, CategoryPublish, CategoryNotification:
			return http.StatusUnprocessableEntity
		case CategoryRuntime:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}

	return http.StatusInternalServerError
}

// WriteErrorResponse writes a JSON error response and logs with the level
// matching the error's severity.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := a.StatusCodeFor(err)
	payload := a.FormatErrorResponse(err)

	b, jerr := json.Marshal(payload)
	if jerr != nil {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)

	if afe, ok := err.(*AppForgeError); ok {
		a.logger.Log(context.Background(), a.slogLevelFromSeverity(afe.Severity), afe.Error())
		return
	}
	a.logger.Error(err.Error())
}

// FormatErrorResponse converts known errors into a canonical error payload.
// Authorization failures deliberately carry no detail beyond "Unauthorized".
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if err == nil {
		return HTTPErrorResponse{Error: ""}
	}
	if afe, ok := err.(*AppForgeError); ok {
		if afe.Category == CategoryAuth {
			return HTTPErrorResponse{Error: "Unauthorized"}
		}
		resp := HTTPErrorResponse{Error: afe.Message, Code: string(afe.Category)}
		if len(afe.Context) > 0 {
			resp.Details = map[string]any(afe.Context)
		}
		if afe.Retryable {
			resp.Retryable = true
		}
		return resp
	}
	return HTTPErrorResponse{Error: err.Error()}
}

func (a *HTTPErrorAdapter) slogLevelFromSeverity(s ErrorSeverity) slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

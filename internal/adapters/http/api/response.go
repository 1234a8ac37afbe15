package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/okian/fairway/pkg/logger"
)

// Response is the envelope around every JSON body.
type Response struct {
	Success     bool              `json:"success"`
	Data        any               `json:"data,omitempty"`
	Message     string            `json:"message,omitempty"`
	ErrorCode   string            `json:"errorCode,omitempty"`
	Errors      []string          `json:"errors,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Path        string            `json:"path,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Response{
		Success:   true,
		Data:      data,
		Message:   msg,
		Timestamp: time.Now().UTC(),
	})
}

// writeError renders err with the status of its kind. Internal details are
// logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := KindOf(err)
	status := kind.Status()

	resp := Response{
		ErrorCode: kind.Code(),
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		resp.FieldErrors = apiErr.Fields
	}

	if status >= http.StatusInternalServerError && kind != KindUnavailable {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("error_code", resp.ErrorCode),
			logger.Error(err))
		resp.Message = http.StatusText(status)
	} else {
		resp.Message = cause(err).Error()
	}

	w.Header().Set(headerErrorCode, resp.ErrorCode)
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// cause strips the Op prefix for client messages.
func cause(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Err != nil {
		return apiErr.Err
	}
	return err
}

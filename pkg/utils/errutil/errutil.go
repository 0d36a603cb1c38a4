package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
)

// ErrorBody is the JSON body of every error response
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request without exposing internal details
type ErrorDetail struct {
	Kind      model.ErrorKind `json:"kind"`
	Message   string          `json:"message"`
	Rule      string          `json:"rule,omitempty"`
	Retryable bool            `json:"retryable"`
}

// StatusCode maps an error kind to its HTTP status code
func StatusCode(kind model.ErrorKind) int {
	switch kind {
	case model.KindUnauthenticated:
		return http.StatusUnauthorized
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindPermissionDenied:
		return http.StatusForbidden
	case model.KindInvalidInput:
		return http.StatusBadRequest
	case model.KindConflictExhausted:
		return http.StatusConflict
	case model.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the message shown to clients. Internal failures never expose the
// wrapped error text.
func publicMessage(kind model.ErrorKind) string {
	switch kind {
	case model.KindUnauthenticated:
		return "authentication required"
	case model.KindNotFound:
		return "resource not found"
	case model.KindPermissionDenied:
		return "permission denied"
	case model.KindInvalidInput:
		return "invalid input"
	case model.KindConflictExhausted:
		return "too many concurrent updates, retry the request"
	case model.KindStoreUnavailable:
		return "storage is temporarily unavailable"
	default:
		return "internal server error"
	}
}

// Handle logs the error with a message and reports it to Sentry when it is a server side
// failure. It returns err unchanged.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	kind := model.KindOf(err)
	log(ctx, slog.LevelError, msg, err, slog.String("kind", string(kind)))
	capture(ctx, err, kind)
	return err
}

// HandleHTTP logs the error, reports 5xx errors to Sentry and writes the JSON error body
// with the status code derived from the error kind.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	kind := model.KindOf(err)
	status := StatusCode(kind)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
		capture(ctx, err, kind)
	}
	log(ctx, level, "HTTP error", err,
		slog.Int("status", status),
		slog.String("kind", string(kind)),
	)

	detail := ErrorDetail{
		Kind:      kind,
		Message:   publicMessage(kind),
		Retryable: kind.Retryable(),
	}
	if kind == model.KindPermissionDenied {
		detail.Rule = model.RuleOf(err).String()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorBody{Error: detail}); err != nil {
		logging.From(ctx).Error("failed to write error response", "error", err)
	}
}

func log(ctx context.Context, level slog.Level, msg string, err error, attrs ...slog.Attr) {
	logger := logging.From(ctx)

	args := make([]any, 0, len(attrs)+3)
	for _, attr := range attrs {
		args = append(args, attr)
	}
	args = append(args, slog.String("error", err.Error()))

	var ge *goerr.Error
	if errors.As(err, &ge) {
		args = append(args, slog.Any("values", ge.Values()))
		if level >= slog.LevelError {
			args = append(args, slog.Any("stack", ge.Stacks()))
		}
	}

	logger.Log(ctx, level, msg, args...)
}

// capture sends server side errors to Sentry. It is a no-op until sentry.Init has been
// called with a DSN.
func capture(ctx context.Context, err error, kind model.ErrorKind) {
	if StatusCode(kind) < http.StatusInternalServerError {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("kind", string(kind))
		var ge *goerr.Error
		if errors.As(err, &ge) {
			scope.SetContext("values", sentry.Context(ge.Values()))
		}
		hub.CaptureException(err)
	})
}

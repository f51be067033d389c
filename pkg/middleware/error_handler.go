package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"runtime/debug"
	"time"

	"aggrepo/pkg/errors"
	"aggrepo/pkg/logger"
)

// Context key for request ID
type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDMiddleware generates a unique request ID for each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)

		// Add request ID to response header
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware attaches a request-scoped logger and logs each request
func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log.With("request_id", GetRequestID(r.Context()))
			ctx := logger.WithContext(r.Context(), reqLog)

			next.ServeHTTP(w, r.WithContext(ctx))

			reqLog.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start))
		})
	}
}

// RecoveryMiddleware turns panics into 500 responses
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.FromContext(r.Context()).Error("panic",
					"panic", err,
					"stack", string(debug.Stack()))

				if w.Header().Get("Content-Type") == "" {
					HandleError(w, r, errors.NewInternalError("Internal server error"))
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// HandleError maps application and repository errors to an API error response
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())
	appErr := toApplicationError(err)
	log := logger.FromContext(r.Context())

	if appErr.Status >= http.StatusInternalServerError {
		log.Error("request failed", "status", appErr.Status, "code", appErr.Code,
			"error", err, "method", r.Method, "path", r.URL.Path)
	} else {
		log.Debug("request rejected", "status", appErr.Status, "code", appErr.Code,
			"error", err, "method", r.Method, "path", r.URL.Path)
	}

	sendApiErrorResponse(w, requestID, appErr.Status, appErr.Code, appErr.Message)
}

func toApplicationError(err error) *errors.ApplicationError {
	var appErr *errors.ApplicationError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var readErr *errors.ReadError
	if stderrors.As(err, &readErr) {
		switch readErr.Kind {
		case errors.MultipleEntitiesFound:
			return &errors.ApplicationError{Code: string(readErr.Kind), Message: readErr.Error(), Status: http.StatusConflict}
		default:
			return &errors.ApplicationError{Code: string(readErr.Kind), Message: readErr.Error(), Status: http.StatusNotFound}
		}
	}

	var writeErr *errors.WriteError
	if stderrors.As(err, &writeErr) {
		return &errors.ApplicationError{Code: string(writeErr.Kind), Message: "failed to persist entity", Status: http.StatusInternalServerError}
	}

	return errors.NewInternalError("Internal server error")
}

// sendApiErrorResponse sends a standardized API error response
func sendApiErrorResponse(w http.ResponseWriter, requestID string, statusCode int, code, message string) {
	response := map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"request_id": requestID,
		"timestamp":  time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// GetRequestID returns the request ID stored in ctx
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return "unknown"
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

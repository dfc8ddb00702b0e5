package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devfolio/projects-api/errs"
)

const requestIDHeader = "X-Request-ID"

// AdminAuthorizer decides whether an Authorization header belongs to an administrator and
// returns the administrator's username.
type AdminAuthorizer interface {
	Authorize(ctx context.Context, authHeader string) (string, error)
}

type adminMiddleware struct {
	responder  Responder
	logger     zerolog.Logger
	authorizer AdminAuthorizer
}

func newAdminMiddleware(authorizer AdminAuthorizer) adminMiddleware {
	logger := log.With().Str("handlerName", "adminMiddleware").Logger()
	return adminMiddleware{
		responder:  NewResponder(logger),
		logger:     logger,
		authorizer: authorizer,
	}
}

func (m adminMiddleware) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, err := m.authorizer.Authorize(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			m.logger.Warn().
				Str("requestID", ctxGetRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Err(err).
				Msg("Admin check failed")
			m.responder.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithUsername(r.Context(), username)))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// RequestID tags each request with an id taken from X-Request-ID or freshly generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctxWithRequestID(r.Context(), requestID)))
	})
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "recoverer").Logger())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("requestID", ctxGetRequestID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					responder.WriteError(srw, errs.NewApiErr(http.StatusInternalServerError, "internal server error"))
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status >= http.StatusInternalServerError {
			log.Error().
				Str("requestID", ctxGetRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Msg("5xx error response")
		}
	})
}

// corsMiddleware allows the configured origins. No origins means any origin without credentials.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowCredentials := true
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
		allowCredentials = false
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}

// maxBodySize caps request bodies. Reads beyond the limit fail with *http.MaxBytesError.
func maxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HTTPLoggingMiddleware logs every request at a level chosen by its status code
func HTTPLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(srw, r)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = log.Error()
		case srw.status >= 400:
			logEvent = log.Warn()
		default:
			logEvent = log.Info()
		}

		logEvent.
			Str("requestID", ctxGetRequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}

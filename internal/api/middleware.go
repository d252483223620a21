package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware assigns a request id, attaches a request-scoped logger to the
// context and writes one log line and one metrics sample per request.
func loggingMiddleware(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		reqLogger := logger.With().Str("request_id", requestID).Logger()
		r = r.WithContext(reqLogger.WithContext(r.Context()))

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.IncHTTP(endpoint, recorder.status)

		reqLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("endpoint", endpoint).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zerolog.Ctx(r.Context()).Error().Interface("panic", rec).Msg("Recovered from panic")
				writeError(w, http.StatusInternalServerError, "internal error", "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// quotaMiddleware limits requests per user id. Requests without a parseable
// user id pass through; handlers reject them.
func quotaMiddleware(cfg config.UserQuotaConfig, quota domain.QuotaRepository, next http.Handler) http.Handler {
	if !cfg.Enabled || quota == nil {
		return next
	}
	window := time.Duration(cfg.WindowSeconds) * time.Second

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUserID(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := quota.CheckRateLimit(r.Context(), userID, cfg.Requests, window)
		if err != nil {
			// квота недоступна, пропускаем запрос
			zerolog.Ctx(r.Context()).Warn().Err(err).Int64("user_id", userID).Msg("Quota check failed")
		} else if !allowed {
			metrics.IncQuotaRejected()
			writeError(w, http.StatusTooManyRequests, "quota exceeded",
				fmt.Sprintf("user %d exceeded %d requests per %s", userID, cfg.Requests, window))
			return
		}
		next.ServeHTTP(w, r)
	})
}

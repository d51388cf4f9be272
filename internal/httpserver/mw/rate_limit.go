package mw

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
	"github.com/MrSnakeDoc/bundlepitch/internal/utils"
)

// Counter counts hits per subject in fixed windows (store/redis.Store).
type Counter interface {
	Allow(ctx context.Context, subject string, limit int, window time.Duration) (bool, time.Duration, error)
}

type RateLimitConfig struct {
	Name       string        // namespaces the counters, e.g. "generate"
	Limit      int           // hits allowed per window
	Window     time.Duration // window length
	TrustProxy bool          // resolve the client IP from proxy headers
}

// RateLimit limits requests per session user, or per client IP when no
// session is attached. Counter errors let the request through.
func RateLimit(counter Counter, cfg RateLimitConfig, log logger.Logger) func(http.Handler) http.Handler {
	limitStr := strconv.Itoa(cfg.Limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := rateSubject(r, cfg)

			ok, retry, err := counter.Allow(r.Context(), subject, cfg.Limit, cfg.Window)
			if err != nil {
				log.Warn("rate limiter unavailable, allowing request",
					logger.String("subject", subject),
					logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", limitStr)
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(retry)))
				w.Header().Set("X-RateLimit-Remaining", "0")
				log.Info("rate limit exceeded", logger.String("subject", subject))
				respond.Error(w, http.StatusTooManyRequests, "Too many requests, please slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateSubject(r *http.Request, cfg RateLimitConfig) string {
	if s, ok := domain.SessionFromContext(r.Context()); ok {
		return cfg.Name + ":user:" + s.UserID
	}
	return cfg.Name + ":ip:" + utils.ClientIP(r, cfg.TrustProxy)
}

func retryAfterSeconds(d time.Duration) int {
	sec := int(math.Ceil(d.Seconds()))
	if sec < 1 {
		sec = 1
	}
	return sec
}

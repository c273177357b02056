package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/surchef/internal/http/response"
)

const maxTrackedClients = 10000

// RateLimitMiddleware ограничивает частоту запросов с одного адреса.
func RateLimitMiddleware(log *slog.Logger, rps float64, burst int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			if len(limiters) >= maxTrackedClients {
				limiters = make(map[string]*rate.Limiter)
			}
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[key] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiterFor(clientKey(r)).Allow() {
				log.Warn("too many requests", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

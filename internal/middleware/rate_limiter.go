package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"weather-agent/internal/config"
	"weather-agent/internal/model"
)

// the visitor holds the rate limiter and last seen time for a specific IP address.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// pathVisitor holds the rate limiter and last seen time for a specific IP and request path.
type pathVisitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	// globalVisitors maps IP addresses to their corresponding visitor struct for global rate limiting.
	globalVisitors = make(map[string]*visitor) // key: ip
	// pathVisitors maps IP addresses and request paths to their corresponding pathVisitor struct.
	// Keying on the path throttles repeated hits against one resource (e.g. one location)
	// more aggressively than the global per-IP limit.
	pathVisitors = make(map[string]map[string]*pathVisitor) // key: ip -> path -> visitor
	muGlobal     sync.Mutex
	muPath       sync.Mutex
)

// getGlobalLimiter returns the rate limiter for the given IP address, creating one if it does not exist.
func getGlobalLimiter(ip string) *rate.Limiter {
	muGlobal.Lock()
	defer muGlobal.Unlock()
	v, exists := globalVisitors[ip]
	if !exists {
		r, burst := config.GetGlobalRateLimiterConfig()
		limiter := rate.NewLimiter(rate.Limit(r/60.0), burst)
		globalVisitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// getPathLimiter returns the rate limiter for the given IP address and path, creating one if it does not exist.
func getPathLimiter(ip, path string) *rate.Limiter {
	muPath.Lock()
	defer muPath.Unlock()
	if _, ok := pathVisitors[ip]; !ok {
		pathVisitors[ip] = make(map[string]*pathVisitor)
	}
	v, exists := pathVisitors[ip][path]
	if !exists {
		r, burst := config.GetParamRateLimiterConfig()
		limiter := rate.NewLimiter(rate.Limit(r/60.0), burst)
		pathVisitors[ip][path] = &pathVisitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupGlobalVisitors periodically removes globalVisitors entries that have not been seen recently.
func cleanupGlobalVisitors() {
	for {
		time.Sleep(time.Minute)
		cutoff := config.GetRateLimiterCleanupTimeout()
		muGlobal.Lock()
		for ip, v := range globalVisitors {
			if time.Since(v.lastSeen) > cutoff {
				delete(globalVisitors, ip)
			}
		}
		muGlobal.Unlock()
	}
}

// cleanupPathVisitors periodically removes pathVisitors entries that have not been seen recently.
func cleanupPathVisitors() {
	for {
		time.Sleep(time.Minute)
		cutoff := config.GetRateLimiterCleanupTimeout()
		muPath.Lock()
		for ip, pathMap := range pathVisitors {
			for path, v := range pathMap {
				if time.Since(v.lastSeen) > cutoff {
					delete(pathMap, path)
				}
			}
			if len(pathMap) == 0 {
				delete(pathVisitors, ip)
			}
		}
		muPath.Unlock()
	}
}

// StartRateLimiterCleanup starts background goroutines to clean up stale visitors for both limiters.
func StartRateLimiterCleanup() {
	go cleanupGlobalVisitors()
	go cleanupPathVisitors()
}

// ResetVisitors clears all visitor states for both limiters. Used primarily for testing.
func ResetVisitors() {
	muGlobal.Lock()
	for k := range globalVisitors {
		delete(globalVisitors, k)
	}
	muGlobal.Unlock()
	muPath.Lock()
	for k := range pathVisitors {
		delete(pathVisitors, k)
	}
	muPath.Unlock()
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

// RateLimitMiddleware returns an HTTP middleware that enforces global and per-path rate limiting.
// If the rate limit is exceeded, it responds with a 429 status and a JSON error message.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		globalLimiter := getGlobalLimiter(ip)
		pathLimiter := getPathLimiter(ip, r.URL.Path)
		if !globalLimiter.Allow() {
			writeRateLimited(w, "Rate limit exceeded for this user/IP", "Too Many Requests (global limit)")
			return
		}
		if !pathLimiter.Allow() {
			writeRateLimited(w, "Rate limit exceeded for this resource per user/IP", "Too Many Requests (per-path limit)")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeRateLimited(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	resp := model.Response{
		Error:   &errMsg,
		Message: message,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

package httputil

import (
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
	"github.com/yasserelgammal/rate-limiter/limiter"
	"github.com/yasserelgammal/rate-limiter/store"
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

// WithCORS allows any origin so local webview pages can call the API
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// WithRequestLog tags each request with an id (kept from the client when sent) and logs it
func WithRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %s -> %d (%s)", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

// brotliWriter streams the response body through a brotli encoder
type brotliWriter struct {
	http.ResponseWriter
	bw *brotli.Writer
}

func (b *brotliWriter) Write(p []byte) (int, error) {
	return b.bw.Write(p)
}

func (b *brotliWriter) WriteHeader(code int) {
	b.ResponseWriter.Header().Del("Content-Length")
	b.ResponseWriter.WriteHeader(code)
}

// WithCompression brotli-encodes responses for clients that accept "br"
func WithCompression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsBrotli(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "br")
		w.Header().Add("Vary", "Accept-Encoding")
		bw := brotli.NewWriterLevel(w, brotli.DefaultCompression)
		defer bw.Close()

		next.ServeHTTP(&brotliWriter{ResponseWriter: w, bw: bw}, r)
	})
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if strings.EqualFold(coding, "br") {
			return true
		}
	}
	return false
}

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// RateLimiter throttles requests per client IP
type RateLimiter struct {
	limiter *limiter.TokenBucket
	store   store.Store
}

// NewRateLimiter creates a token-bucket limiter backed by an in-memory store
func NewRateLimiter(cfg RateLimitConfig) (*RateLimiter, error) {
	st := store.NewMemoryStore(time.Minute)
	tb, err := limiter.NewTokenBucket(
		limiter.Config{
			Rate:     int64(cfg.RequestsPerSecond),
			Duration: time.Second,
			Burst:    int64(cfg.Burst),
		},
		st,
	)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{limiter: tb, store: st}, nil
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter.Allow(clientKey(r)) {
			RespondError(w, http.StatusTooManyRequests, "rate limit exceeded, retry shortly")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

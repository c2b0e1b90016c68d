package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"golang.org/x/time/rate"
)

const (
	ContactRateLimit  = 20
	ContactRateWindow = 5 * time.Minute

	LoginRatePerMinute = 5
	LoginBurst         = 5
)

// limiter decides whether a request under key may proceed. When it may not,
// retryAfter says how long until it could.
type limiter interface {
	Allow(key string) (ok bool, retryAfter time.Duration)
}

// slidingWindow keeps the timestamps of recent hits per key and allows at
// most limit hits in any window-long span.
type slidingWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits *cache.Cache
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   cache.New(window, 2*window),
	}
}

func (s *slidingWindow) Allow(key string) (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.window)

	var recent []time.Time
	if v, found := s.hits.Get(key); found {
		for _, t := range v.([]time.Time) {
			if t.After(cutoff) {
				recent = append(recent, t)
			}
		}
	}

	if len(recent) >= s.limit {
		s.hits.Set(key, recent, s.window)
		return false, recent[0].Add(s.window).Sub(now)
	}

	recent = append(recent, now)
	s.hits.Set(key, recent, s.window)
	return true, 0
}

// tokenBuckets hands out one rate.Limiter per key. Idle buckets expire.
type tokenBuckets struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters *cache.Cache
}

func newTokenBuckets(perMinute, burst int) *tokenBuckets {
	return &tokenBuckets{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		limiters: cache.New(10*time.Minute, 20*time.Minute),
	}
}

func (b *tokenBuckets) get(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, found := b.limiters.Get(key); found {
		b.limiters.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(b.limit, b.burst)
	b.limiters.SetDefault(key, l)
	return l
}

func (b *tokenBuckets) Allow(key string) (bool, time.Duration) {
	l := b.get(key)
	res := l.Reserve()
	if !res.OK() {
		return false, time.Minute
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return false, delay
	}
	return true, 0
}

// keyFunc picks the bucket a request falls into.
type keyFunc func(r *http.Request) string

func globalKey(*http.Request) string { return "global" }

func ipKey(r *http.Request) string { return clientIP(r) }

func contactKeyFunc(scope string) keyFunc {
	if scope == config.ScopeIP {
		return ipKey
	}
	return globalKey
}

// rateLimit rejects requests over the limit with 429 and a Retry-After header.
func rateLimit(name string, l limiter, key keyFunc, responder Responder, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := l.Allow(key(r))
			if !ok {
				if metrics != nil {
					metrics.RateLimitRejections.WithLabelValues(name).Inc()
				}
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				responder.WriteError(w, errs.NewRateLimitError(retryAfter))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the host part of the connection's remote address. Forwarding
// headers only reach it through middleware.RealIP when TRUST_PROXY is set.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// forwardedFor is the first X-Forwarded-For entry, or clientIP without one.
// It is recorded with contact messages and never used as a limiter key.
func forwardedFor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	return clientIP(r)
}

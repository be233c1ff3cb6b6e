package fakeapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const staleClientAfter = 10 * time.Minute

// limiter counts requests per client in fixed one-minute windows. It lets
// a client exercise its retry policy against 429 responses.
type limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	perMin  int
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	start    time.Time
	requests int
}

func newLimiter(perMinute int, sweep time.Duration) *limiter {
	l := &limiter{
		clients: make(map[string]*window),
		perMin:  perMinute,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweep <= 0 {
		sweep = 5 * time.Minute
	}
	go l.sweep(sweep)
	return l
}

// allow records one request from client. The second result is how long the
// client should wait when the request is refused.
func (l *limiter) allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[client]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.clients[client] = &window{start: now, requests: 1}
		return true, 0
	}
	w.requests++
	if w.requests <= l.perMin {
		return true, 0
	}
	return false, w.start.Add(time.Minute).Sub(now)
}

func (l *limiter) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.forgetStale()
		case <-l.stop:
			return
		}
	}
}

func (l *limiter) forgetStale() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-staleClientAfter)
	for k, w := range l.clients {
		if w.start.Before(cutoff) {
			delete(l.clients, k)
		}
	}
}

func (l *limiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *limiter) close() {
	l.once.Do(func() { close(l.stop) })
}

// middleware refuses requests over the limit with 429 and a Retry-After
// header in whole seconds.
func (l *limiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := l.allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		secs := int(wait.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	}
}

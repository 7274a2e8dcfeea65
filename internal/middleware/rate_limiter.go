package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana tracks the requests of one IP within a fixed window.
type ventana struct {
	count int
	fin   time.Time
}

// RateLimit is a per-IP fixed-window limiter. Each instance keeps its own
// table; expired entries are dropped by Purge.
type RateLimit struct {
	limit   int
	window  time.Duration
	mensaje string
	now     func() time.Time

	mu  sync.Mutex
	ips map[string]*ventana
}

func NewRateLimit(limit int, window time.Duration, mensaje string) *RateLimit {
	return &RateLimit{limit: limit, window: window, mensaje: mensaje, now: time.Now, ips: make(map[string]*ventana)}
}

// NewLoginRateLimit limits login attempts to 20 per minute per IP.
func NewLoginRateLimit() *RateLimit {
	return NewRateLimit(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

// Allow counts one request from ip and reports whether it is within the
// limit, plus the end of the current window.
func (l *RateLimit) Allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.ips[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(l.window)}
		l.ips[ip] = v
	}
	v.count++
	return v.count <= l.limit, v.fin
}

func (l *RateLimit) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := l.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// Purge removes expired windows and returns how many were dropped.
func (l *RateLimit) Purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for ip, v := range l.ips {
		if now.After(v.fin) {
			delete(l.ips, ip)
			n++
		}
	}
	return n
}

// PurgeLoop purges limiters every interval until ctx is cancelled.
func PurgeLoop(ctx context.Context, interval time.Duration, limiters ...*RateLimit) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged := 0
			for _, l := range limiters {
				purged += l.Purge()
			}
			if purged > 0 {
				log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
			}
		}
	}
}

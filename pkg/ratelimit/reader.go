// Package ratelimit throttles file reads during hashing so a scan can run
// on a busy machine without saturating the disk.
package ratelimit

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// minBucketSize keeps reads smooth for very low limits
const minBucketSize = 64 * 1024

// Limiter is a token bucket shared by every reader of one scan
type Limiter struct {
	bytesPerSecond int64
	bucketSize     int64

	mu         sync.Mutex
	tokens     int64
	lastUpdate time.Time
}

// NewLimiter creates a limiter for the given bytes per second
// A non-positive rate returns nil, which every function here treats as unlimited
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	bucketSize := bytesPerSecond
	if bucketSize < minBucketSize {
		bucketSize = minBucketSize
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		bucketSize:     bucketSize,
		tokens:         bucketSize,
		lastUpdate:     time.Now(),
	}
}

// Wait blocks until n bytes may be read or ctx is done
func (l *Limiter) Wait(ctx context.Context, n int64) error {
	if n > l.bucketSize {
		n = l.bucketSize
	}

	for {
		l.mu.Lock()
		l.refill(time.Now())
		if l.tokens >= n {
			l.mu.Unlock()
			return nil
		}
		deficit := n - l.tokens
		l.mu.Unlock()

		wait := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Consume removes n tokens after a read
func (l *Limiter) Consume(n int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens -= n
	if l.tokens < 0 {
		l.tokens = 0
	}
}

// refill adds tokens for the time elapsed since the last update (lock held)
func (l *Limiter) refill(now time.Time) {
	elapsed := now.Sub(l.lastUpdate)
	add := int64(elapsed.Seconds() * float64(l.bytesPerSecond))
	if add <= 0 {
		return
	}
	l.tokens += add
	if l.tokens > l.bucketSize {
		l.tokens = l.bucketSize
	}
	l.lastUpdate = now
}

// readCloser throttles an io.ReadCloser through a Limiter
type readCloser struct {
	ctx     context.Context
	rc      io.ReadCloser
	limiter *Limiter
}

// Wrap returns rc throttled by limiter, or rc itself when limiter is nil
func Wrap(ctx context.Context, rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc
	}
	return &readCloser{ctx: ctx, rc: rc, limiter: limiter}
}

func (r *readCloser) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if int64(len(p)) > r.limiter.bucketSize {
		p = p[:r.limiter.bucketSize]
	}
	if err := r.limiter.Wait(r.ctx, int64(len(p))); err != nil {
		return 0, err
	}

	n, err := r.rc.Read(p)
	if n > 0 {
		r.limiter.Consume(int64(n))
	}
	return n, err
}

func (r *readCloser) Close() error {
	return r.rc.Close()
}

// ParseBandwidth parses limits such as "512K", "10M" or "1G" into bytes per second
// Units are powers of 1024; an empty string or "0" means unlimited
func ParseBandwidth(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/S"), "B")
	if s == "" || s == "0" {
		return 0, nil
	}

	multiplier := int64(1)
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1 << 10
	case 'M':
		multiplier = 1 << 20
	case 'G':
		multiplier = 1 << 30
	}
	if multiplier > 1 {
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid bandwidth limit: %q", s)
	}
	bytes := value * float64(multiplier)
	if bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("bandwidth limit too large: %q", s)
	}
	return int64(bytes), nil
}

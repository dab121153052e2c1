package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limits for AI-backed endpoints. Feedback calls are the expensive ones,
// problem generation produces several completions per request.
const (
	MaxFeedbackCalls   = 30
	MaxGenerationCalls = 10
	window             = time.Hour
)

// Limiter tracks per-user AI usage inside a rolling window.
type Limiter struct {
	rdb *redis.Client
	ctx context.Context
}

// NewLimiter builds a limiter on the shared Redis client. Callers must
// check Available before relying on it.
func NewLimiter() *Limiter {
	return &Limiter{
		rdb: GetRedisClient(),
		ctx: GetContext(),
	}
}

// Available reports whether Redis was reachable at startup. When it is
// not, callers skip limiting rather than failing requests.
func (l *Limiter) Available() bool {
	return l.rdb != nil
}

// CheckFeedback reports whether the user may request another AI feedback.
func (l *Limiter) CheckFeedback(email string) (bool, error) {
	return l.check(feedbackKey(email), MaxFeedbackCalls)
}

// RecordFeedback counts one feedback call against the user's window.
func (l *Limiter) RecordFeedback(email string) error {
	return l.record(feedbackKey(email))
}

// CheckGeneration reports whether the user may generate more problems.
func (l *Limiter) CheckGeneration(email string) (bool, error) {
	return l.check(generationKey(email), MaxGenerationCalls)
}

// RecordGeneration counts one problem-generation call against the window.
func (l *Limiter) RecordGeneration(email string) error {
	return l.record(generationKey(email))
}

func (l *Limiter) check(key string, max int) (bool, error) {
	if l.rdb == nil {
		return false, fmt.Errorf("Redis client not available")
	}

	count, err := l.rdb.Get(l.ctx, key).Int()
	if err == redis.Nil {
		// First call in this window.
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return count < max, nil
}

func (l *Limiter) record(key string) error {
	if l.rdb == nil {
		return fmt.Errorf("Redis client not available")
	}

	count, err := l.rdb.Incr(l.ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		// Window starts with the first recorded call.
		if err := l.rdb.Expire(l.ctx, key, window).Err(); err != nil {
			return err
		}
	}
	return nil
}

func feedbackKey(email string) string {
	return fmt.Sprintf("rate:feedback:%s", email)
}

func generationKey(email string) string {
	return fmt.Sprintf("rate:generate:%s", email)
}

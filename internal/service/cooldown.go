package service

import (
	"errors"
	"time"

	"golang.org/x/time/rate"
)

var ErrTooManyRequests = errors.New("request repeated too quickly")

// Cooldown rejects a confirm repeated within its window
type Cooldown struct {
	limiter *rate.Limiter
}

// NewCooldown allows one action per window
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{limiter: rate.NewLimiter(rate.Every(window), 1)}
}

// Allow consumes the window or returns ErrTooManyRequests
func (c *Cooldown) Allow() error {
	if c == nil {
		return nil
	}
	if !c.limiter.Allow() {
		return ErrTooManyRequests
	}
	return nil
}

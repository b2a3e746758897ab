package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"chat-gate-service/domain"
)

type RateLimitStore interface {
	Allow(ctx context.Context, clientKey string, maxRequests int, window time.Duration) (*domain.RateLimitResult, error)
}

type RateLimit struct {
	store       RateLimitStore
	maxRequests int
	window      time.Duration
}

func NewRateLimit(store RateLimitStore, maxRequests int, window time.Duration) RateLimit {
	return RateLimit{
		store:       store,
		maxRequests: maxRequests,
		window:      window,
	}
}

func (s RateLimit) Check(ctx context.Context, clientKey string) (*domain.RateLimitResult, error) {
	result, err := s.store.Allow(ctx, clientKey, s.maxRequests, s.window)
	if err != nil {
		return nil, errors.WithMessage(err, "allow")
	}
	return result, nil
}

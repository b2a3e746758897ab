package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"chat-gate-service/domain"
	"chat-gate-service/httperrors"
	"chat-gate-service/request"
)

const (
	rateLimitLimitHeader     = "X-RateLimit-Limit"
	rateLimitRemainingHeader = "X-RateLimit-Remaining"
	rateLimitResetHeader     = "X-RateLimit-Reset"
)

type RateLimiter interface {
	Check(ctx context.Context, clientKey string) (*domain.RateLimitResult, error)
}

func RateLimit(limiter RateLimiter, limit int) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			result, err := limiter.Check(ctx.Context(), ctx.ClientKey())
			if err != nil {
				return errors.WithMessage(err, "rate limit: check")
			}
			ctx.SetRateLimit(result)

			header := ctx.ResponseWriter().Header()
			header.Set(rateLimitLimitHeader, strconv.Itoa(limit))
			header.Set(rateLimitRemainingHeader, strconv.Itoa(result.Remaining))
			header.Set(rateLimitResetHeader, strconv.FormatInt(result.ResetAt.UnixMilli(), 10))

			if !result.Allow {
				return httperrors.New(
					http.StatusTooManyRequests,
					"Rate limit exceeded",
					errors.Errorf("rate limit: limit has been reached for client '%s'", ctx.ClientKey()),
				).
					WithField("message", fmt.Sprintf("Rate limit exceeded. Try again after %s", result.ResetAt.Format(time.RFC1123))).
					WithField("resetTime", result.ResetAt.UnixMilli())
			}

			return next.Handle(ctx)
		})
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"chat-gate-service/httperrors"
	"chat-gate-service/request"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "Bearer "
)

func Authenticate(secret string) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			header := ctx.Request().Header.Get(authorizationHeader)
			if !strings.HasPrefix(header, bearerScheme) {
				return httperrors.New(
					http.StatusUnauthorized,
					"Authorization header required",
					errors.New("authenticate: bearer token required"),
				)
			}

			token := strings.TrimPrefix(header, bearerScheme)
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				return httperrors.New(
					http.StatusUnauthorized,
					"Invalid API key",
					errors.New("authenticate: token mismatch"),
				)
			}

			return next.Handle(ctx)
		})
	}
}

package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/txix-open/isp-kit/log"
	"chat-gate-service/request"
)

const (
	forwardedForHeader = "X-Forwarded-For"
	realIpHeader       = "X-Real-IP"

	unknownClientKey = "unknown"
)

func ClientIp() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			clientKey := ClientKey(ctx.Request())
			ctx.SetClientKey(clientKey)
			ctx.SetContext(log.ToContext(ctx.Context(), log.String("clientKey", clientKey)))
			return next.Handle(ctx)
		})
	}
}

// ClientKey derives the rate limit identity of the caller: the first address
// in X-Forwarded-For, then X-Real-IP, then the transport peer address.
func ClientKey(req *http.Request) string {
	forwardedFor := req.Header.Get(forwardedForHeader)
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}

	realIp := strings.TrimSpace(req.Header.Get(realIpHeader))
	if realIp != "" {
		return realIp
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if req.RemoteAddr != "" {
		return req.RemoteAddr
	}

	return unknownClientKey
}

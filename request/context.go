package request

import (
	"context"
	"net/http"

	"chat-gate-service/domain"
)

type Context struct {
	request        *http.Request
	responseWriter http.ResponseWriter

	endpoint  string
	clientKey string
	rateLimit *domain.RateLimitResult
}

func NewContext(request *http.Request, response http.ResponseWriter, endpoint string) *Context {
	return &Context{
		request:        request,
		responseWriter: response,
		endpoint:       endpoint,
	}
}

func (c *Context) Request() *http.Request {
	return c.request
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.responseWriter
}

func (c *Context) SetResponseWriter(writer http.ResponseWriter) {
	c.responseWriter = writer
}

func (c *Context) Endpoint() string {
	return c.endpoint
}

func (c *Context) SetClientKey(clientKey string) {
	c.clientKey = clientKey
}

func (c *Context) ClientKey() string {
	return c.clientKey
}

func (c *Context) SetRateLimit(result *domain.RateLimitResult) {
	c.rateLimit = result
}

func (c *Context) RateLimit() *domain.RateLimitResult {
	return c.rateLimit
}

func (c *Context) Context() context.Context {
	return c.request.Context()
}

func (c *Context) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

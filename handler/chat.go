package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"chat-gate-service/domain"
	"chat-gate-service/httperrors"
	"chat-gate-service/request"
)

type CompletionService interface {
	Complete(ctx context.Context, message string) (string, error)
}

type Chat struct {
	service CompletionService
}

func NewChat(service CompletionService) Chat {
	return Chat{
		service: service,
	}
}

func (h Chat) Handle(ctx *request.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.WithMessage(err, "chat: read request body")
	}

	chatRequest := domain.ChatRequest{}
	err = json.Unmarshal(body, &chatRequest)
	if err != nil {
		return httperrors.New(
			http.StatusBadRequest,
			"Message is required",
			errors.WithMessage(err, "chat: unmarshal request body"),
		)
	}
	if chatRequest.Message == "" {
		return httperrors.New(
			http.StatusBadRequest,
			"Message is required",
			errors.New("chat: message is empty"),
		)
	}

	response, err := h.service.Complete(ctx.Context(), chatRequest.Message)
	if err != nil {
		// upstream failure detail stays in the logs, the caller always
		// receives the same generic message
		return httperrors.New(
			http.StatusInternalServerError,
			"Failed to get response from AI",
			errors.WithMessage(err, "chat: complete"),
		)
	}

	// marshal before touching the writer, a failure after WriteHeader
	// would leave a half-written 200 that the error handler can't replace
	responseBody, err := json.Marshal(domain.ChatResponse{Response: response})
	if err != nil {
		return errors.WithMessage(err, "chat: marshal response")
	}

	writer := ctx.ResponseWriter()
	writer.Header().Set("Content-Type", "application/json")
	// the response is committed at this point, a write error must not
	// reach the error handler or it would write a second body on top
	_, _ = writer.Write(responseBody)
	return nil
}

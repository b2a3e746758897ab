package service

import (
	"context"

	"github.com/pkg/errors"
	"chat-gate-service/domain"
)

const systemPrompt = `You are a language learning assistant. ` +
	`Translate the word or phrase sent by the user and answer with a concise flashcard: ` +
	`the translation, the part of speech, one short example sentence and its translation. ` +
	`Keep the answer brief enough to fit on a single flashcard.`

type CompletionApi interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
}

type Completion struct {
	api CompletionApi
}

func NewCompletion(api CompletionApi) Completion {
	return Completion{
		api: api,
	}
}

func (s Completion) Complete(ctx context.Context, message string) (string, error) {
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: systemPrompt},
		{Role: domain.RoleUser, Content: message},
	}
	content, err := s.api.Complete(ctx, messages)
	if err != nil {
		return "", errors.WithMessage(err, "complete")
	}
	return content, nil
}

package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/json"
	"chat-gate-service/conf"
	"chat-gate-service/domain"
)

const completionsEndpoint = "/chat/completions"

type completionRequest struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature"`
}

type completionResponse struct {
	Choices []completionChoice `json:"choices"`
}

type completionChoice struct {
	Message domain.Message `json:"message"`
}

type OpenAi struct {
	cli *httpcli.Client
	cfg conf.Upstream
}

func NewOpenAi(cli *httpcli.Client, cfg conf.Upstream) OpenAi {
	return OpenAi{
		cli: cli,
		cfg: cfg,
	}
}

func (r OpenAi) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout())
	defer cancel()

	resp, err := r.cli.Post(r.cfg.BaseUrl + completionsEndpoint).
		Header("Authorization", "Bearer "+r.cfg.ApiKey).
		JsonRequestBody(completionRequest{
			Model:       r.cfg.Model,
			Messages:    messages,
			MaxTokens:   r.cfg.MaxTokens,
			Temperature: r.cfg.Temperature,
		}).
		Do(ctx)
	if err != nil {
		return "", errors.WithMessage(err, "call completions api")
	}
	defer resp.Close()

	if !resp.IsSuccess() {
		return "", errors.Errorf("completions api responded with status %d", resp.StatusCode())
	}

	body, err := resp.UnsafeBody()
	if err != nil {
		return "", errors.WithMessage(err, "read completions response")
	}
	result := completionResponse{}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return "", errors.WithMessage(err, "unmarshal completions response")
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", domain.ErrEmptyCompletion
	}

	return result.Choices[0].Message.Content, nil
}

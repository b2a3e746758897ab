package repository_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/txix-open/isp-kit/http/httpcli"
	"chat-gate-service/conf"
	"chat-gate-service/domain"
	"chat-gate-service/repository"
)

func upstreamConfig(baseUrl string) conf.Upstream {
	return conf.Upstream{
		ApiKey:       "upstream-secret",
		BaseUrl:      baseUrl,
		Model:        "gpt-4o-mini",
		Temperature:  0.7,
		MaxTokens:    500,
		TimeoutInSec: 5,
	}
}

func TestCompleteReturnsAssistantMessage(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	var (
		gotPath   string
		gotAuth   string
		gotModel  string
		gotPrompt string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		gotAuth = req.Header.Get("Authorization")
		body := struct {
			Model    string           `json:"model"`
			Messages []domain.Message `json:"messages"`
		}{}
		_ = json.NewDecoder(req.Body).Decode(&body)
		gotModel = body.Model
		if len(body.Messages) > 0 {
			gotPrompt = body.Messages[len(body.Messages)-1].Content
		}
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "die Katze — the cat"}}]}`))
	}))
	defer srv.Close()

	api := repository.NewOpenAi(httpcli.New(), upstreamConfig(srv.URL))
	content, err := api.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "die Katze"},
	})
	require.NoError(err)
	require.Equal("die Katze — the cat", content)

	require.Equal("/chat/completions", gotPath)
	require.Equal("Bearer upstream-secret", gotAuth)
	require.Equal("gpt-4o-mini", gotModel)
	require.Equal("die Katze", gotPrompt)
}

func TestCompleteFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		emptyErr bool
	}{
		{name: "upstream error status", status: http.StatusBadGateway, body: `{"error": "bad gateway"}`},
		{name: "malformed body", status: http.StatusOK, body: `{"choices": [`},
		{name: "no choices", status: http.StatusOK, body: `{"choices": []}`, emptyErr: true},
		{name: "null content", status: http.StatusOK, body: `{"choices": [{"message": {"role": "assistant", "content": null}}]}`, emptyErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require := require.New(t)

			srv := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer srv.Close()

			api := repository.NewOpenAi(httpcli.New(), upstreamConfig(srv.URL))
			_, err := api.Complete(context.Background(), []domain.Message{
				{Role: domain.RoleUser, Content: "die Katze"},
			})
			require.Error(err)
			if tt.emptyErr {
				require.ErrorIs(err, domain.ErrEmptyCompletion)
			}
		})
	}
}

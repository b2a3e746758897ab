package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"chat-gate-service/handler"
	"chat-gate-service/httperrors"
	"chat-gate-service/request"
)

type completionServiceMock struct {
	response string
	err      error
	calls    int
}

func (m *completionServiceMock) Complete(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.response, m.err
}

func handleChat(t *testing.T, service handler.CompletionService, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	ctx := request.NewContext(req, recorder, "/api/chat")
	return recorder, handler.NewChat(service).Handle(ctx)
}

func TestChatSuccess(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	service := &completionServiceMock{response: "der Hund — the dog"}
	recorder, err := handleChat(t, service, `{"message": "der Hund"}`)
	require.NoError(err)
	require.Equal(1, service.calls)

	body := map[string]string{}
	require.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal("der Hund — the dog", body["response"])
}

func TestChatMessageRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ``},
		{name: "not json", body: `message`},
		{name: "absent message", body: `{}`},
		{name: "empty message", body: `{"message": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require := require.New(t)

			service := &completionServiceMock{}
			_, err := handleChat(t, service, tt.body)

			httpErr := httperrors.HttpError{}
			require.ErrorAs(err, &httpErr)
			require.Equal(http.StatusBadRequest, httpErr.StatusCode())
			require.Equal(0, service.calls)
		})
	}
}

type brokenWriter struct {
	header http.Header
	writes int
}

func (w *brokenWriter) Header() http.Header {
	return w.header
}

func (w *brokenWriter) WriteHeader(int) {
}

func (w *brokenWriter) Write([]byte) (int, error) {
	w.writes++
	return 0, errors.New("client gone")
}

func TestChatWriteFailureNotPropagated(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	service := &completionServiceMock{response: "der Hund — the dog"}
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "der Hund"}`))
	writer := &brokenWriter{header: http.Header{}}
	ctx := request.NewContext(req, writer, "/api/chat")

	// a failed write on a committed response must not surface as an error,
	// the error handler would append a second body otherwise
	err := handler.NewChat(service).Handle(ctx)
	require.NoError(err)
	require.Equal(1, writer.writes)
}

func TestChatUpstreamFailure(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	service := &completionServiceMock{err: errors.New("completions api responded with status 502")}
	_, err := handleChat(t, service, `{"message": "der Hund"}`)

	httpErr := httperrors.HttpError{}
	require.ErrorAs(err, &httpErr)
	require.Equal(http.StatusInternalServerError, httpErr.StatusCode())

	recorder := httptest.NewRecorder()
	require.NoError(httpErr.WriteError(recorder))
	body := map[string]string{}
	require.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal("Failed to get response from AI", body["error"])
}

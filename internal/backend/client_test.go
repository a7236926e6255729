package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourmate-gateway/pkg/api"
)

func TestStartSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/start_session", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.StartSessionResponse{SessionID: "abc123"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	sessionID, err := client.StartSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", sessionID)
}

func TestStartSessionUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.StartSession(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsTimeout(err))
}

func TestStartSessionUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.StartSession(context.Background())
	require.Error(t, err)

	var berr *Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, KindUpstream, berr.Kind)
	assert.Equal(t, http.StatusBadGateway, berr.StatusCode)
	assert.Contains(t, berr.Body, "boom")
}

func TestCheckSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chatbot/check_session/sess-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.CheckSessionResponse{Valid: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	valid, err := client.CheckSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestCheckSessionNoContentTypeHeader(t *testing.T) {
	// Backends that skip the Content-Type header get sniffed as text/plain;
	// decoding must not depend on the header.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valid": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	valid, err := client.CheckSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestCheckSessionUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.CheckSession(context.Background(), "sess-1")
	require.Error(t, err)

	var berr *Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, KindUpstream, berr.Kind)
}

func TestCheckSessionMissingID(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.CheckSession(context.Background(), "")
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, 0, calls, "missing id must short-circuit before any network call")
}

func TestChatHistoryEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chatbot/chat_history/sess-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.ChatHistoryResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	history, err := client.ChatHistory(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestChatHistoryMissingID(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	_, err := client.ChatHistory(context.Background(), "")
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestChat(t *testing.T) {
	insights := "Sigiriya is the most visited."
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req api.BackendChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Tell me about Sigiriya", req.Question)
		assert.Equal(t, "sess-1", req.SessionID)
		assert.Equal(t, "Friendly", req.Settings.PolitenessLevel)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.BackendChatResponse{Result: api.BackendChatResult{
			TextExplanation: "Sigiriya is a rock fortress.",
			Data:            []api.Row{{"Place": "Sigiriya", "Description": "Rock fortress"}},
			TableInsights:   &insights,
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result, err := client.Chat(context.Background(), api.BackendChatRequest{
		Question:  "Tell me about Sigiriya",
		SessionID: "sess-1",
		Settings:  api.DefaultSettings(""),
		Date:      "2026-09-01",
		Time:      "10:30:00 AM",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sigiriya is a rock fortress.", result.TextExplanation)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Sigiriya", result.Data[0]["Place"])
	require.NotNil(t, result.TableInsights)
	assert.Equal(t, insights, *result.TableInsights)
}

func TestChatUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("oops"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Chat(context.Background(), api.BackendChatRequest{Question: "hi", SessionID: "sess-1"})
	require.Error(t, err)

	var berr *Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, KindUpstream, berr.Kind)
	assert.Contains(t, berr.Body, "oops")
}

func TestChatMissingFields(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)

	_, err := client.Chat(context.Background(), api.BackendChatRequest{SessionID: "sess-1"})
	assert.True(t, IsInvalidArgument(err))

	_, err = client.Chat(context.Background(), api.BackendChatRequest{Question: "hi"})
	assert.True(t, IsInvalidArgument(err))
}

func TestChatTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond)
	_, err := client.Chat(context.Background(), api.BackendChatRequest{Question: "hi", SessionID: "sess-1"})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.False(t, IsUnavailable(err))
}

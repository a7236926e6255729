package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"tourmate-gateway/pkg/api"
)

const DefaultBaseURL = "http://127.0.0.1:8000"

const DefaultTimeout = 60 * time.Second

// Client talks to the external AI backend. It is stateless per call;
// conversation memory lives in the backend, keyed by session id.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

// StartSession mints a new session identifier.
func (c *Client) StartSession(ctx context.Context) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		Post("/api/start_session")
	if err != nil {
		return "", transportError("start session", err)
	}
	if res.IsError() {
		return "", upstreamErrorf(res.StatusCode(), string(res.Body()), "start session: backend responded with status %d", res.StatusCode())
	}

	var out api.StartSessionResponse
	if err := decodeBody("start session", res, &out); err != nil {
		return "", err
	}
	if out.SessionID == "" {
		return "", upstreamErrorf(res.StatusCode(), string(res.Body()), "start session: backend returned no session id")
	}
	return out.SessionID, nil
}

// CheckSession asks the backend whether the given id still names a live
// session.
func (c *Client) CheckSession(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, Errorf(KindInvalidArgument, "session id is required")
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get("/chatbot/check_session/" + url.PathEscape(sessionID))
	if err != nil {
		return false, transportError("check session", err)
	}
	if res.IsError() {
		return false, upstreamErrorf(res.StatusCode(), string(res.Body()), "check session: backend responded with status %d", res.StatusCode())
	}

	var out api.CheckSessionResponse
	if err := decodeBody("check session", res, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// ChatHistory returns the prior transcript for a session, oldest first.
// A session with no history yields an empty slice, not an error.
func (c *Client) ChatHistory(ctx context.Context, sessionID string) ([]api.ChatMessage, error) {
	if sessionID == "" {
		return nil, Errorf(KindInvalidArgument, "session id is required")
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get("/chatbot/chat_history/" + url.PathEscape(sessionID))
	if err != nil {
		return nil, transportError("chat history", err)
	}
	if res.IsError() {
		return nil, upstreamErrorf(res.StatusCode(), string(res.Body()), "chat history: backend responded with status %d", res.StatusCode())
	}

	var out api.ChatHistoryResponse
	if err := decodeBody("chat history", res, &out); err != nil {
		return nil, err
	}
	if out.History == nil {
		return []api.ChatMessage{}, nil
	}
	return out.History, nil
}

// Chat forwards one turn to the backend's chat endpoint.
func (c *Client) Chat(ctx context.Context, req api.BackendChatRequest) (api.BackendChatResult, error) {
	if req.Question == "" {
		return api.BackendChatResult{}, Errorf(KindInvalidArgument, "question is required")
	}
	if req.SessionID == "" {
		return api.BackendChatResult{}, Errorf(KindInvalidArgument, "session id is required")
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/chat")
	if err != nil {
		return api.BackendChatResult{}, transportError("chat", err)
	}
	if res.IsError() {
		return api.BackendChatResult{}, upstreamErrorf(res.StatusCode(), string(res.Body()), "chat: backend responded with status %d", res.StatusCode())
	}

	var out api.BackendChatResponse
	if err := decodeBody("chat", res, &out); err != nil {
		return api.BackendChatResult{}, err
	}
	return out.Result, nil
}

// decodeBody unmarshals a success response itself rather than relying on
// resty's content-type detection; a backend that omits or mislabels the
// Content-Type header still gets decoded, and a 2xx with an undecodable
// body surfaces as an upstream error instead of zero values.
func decodeBody(op string, res *resty.Response, out any) error {
	if err := json.Unmarshal(res.Body(), out); err != nil {
		return upstreamErrorf(res.StatusCode(), string(res.Body()), "%s: decoding backend response: %v", op, err)
	}
	return nil
}

func transportError(op string, err error) *Error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, err: fmt.Errorf("%s: request timed out: %w", op, err)}
	}
	return &Error{Kind: KindUnavailable, err: fmt.Errorf("%s: cannot connect to backend: %w", op, err)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// Package client is the browser-equivalent side of the system: a small HTTP
// client for the gateway's own /api endpoints, consumed by the session
// controller and the chat orchestrator.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"tourmate-gateway/pkg/api"
)

const DefaultTimeout = 60 * time.Second

type Client struct {
	http *resty.Client
}

func New(gatewayURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: resty.New().SetBaseURL(gatewayURL).SetTimeout(timeout),
	}
}

// CreateSession asks the gateway to mint a new session id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get("/api/session")
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	if res.IsError() {
		var errResp api.ErrorResponse
		if json.Unmarshal(res.Body(), &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("creating session: %s", errResp.Error)
		}
		return "", fmt.Errorf("creating session: gateway responded with status %d", res.StatusCode())
	}

	var out api.StartSessionResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return "", fmt.Errorf("creating session: decoding response: %w", err)
	}
	if out.SessionID == "" {
		return "", fmt.Errorf("creating session: gateway returned no session id")
	}
	return out.SessionID, nil
}

// CheckSession reports whether the stored id still names a live session. The
// gateway answers {"valid": ...} on every status, so any decodable body is
// authoritative; only transport failures surface as errors.
func (c *Client) CheckSession(ctx context.Context, sessionID string) (bool, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("id", sessionID).
		Get("/api/session/check")
	if err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}

	var out api.CheckSessionResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return false, fmt.Errorf("checking session: decoding response: %w", err)
	}
	return out.Valid, nil
}

// History fetches the prior transcript for a session, oldest first.
func (c *Client) History(ctx context.Context, sessionID string) ([]api.ChatMessage, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("id", sessionID).
		Get("/api/session/history")
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	if res.IsError() {
		var errResp api.ErrorResponse
		if json.Unmarshal(res.Body(), &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("fetching history: %s", errResp.Error)
		}
		return nil, fmt.Errorf("fetching history: gateway responded with status %d", res.StatusCode())
	}

	var out api.ChatHistoryResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return nil, fmt.Errorf("fetching history: decoding response: %w", err)
	}
	if out.History == nil {
		return []api.ChatMessage{}, nil
	}
	return out.History, nil
}

// SendTurn submits one chat turn. Any non-success response is an error; the
// orchestrator owns the user-facing fallback.
func (c *Client) SendTurn(ctx context.Context, message, sessionID, language string) (api.ChatResponse, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(api.ChatRequest{Message: message, SessionID: sessionID, Language: language}).
		Post("/api/chatbot")
	if err != nil {
		return api.ChatResponse{}, fmt.Errorf("sending chat turn: %w", err)
	}
	if res.IsError() {
		return api.ChatResponse{}, fmt.Errorf("sending chat turn: gateway responded with status %d: %s", res.StatusCode(), res.Body())
	}

	var out api.ChatResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return api.ChatResponse{}, fmt.Errorf("sending chat turn: decoding response: %w", err)
	}
	return out, nil
}

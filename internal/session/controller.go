package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tourmate-gateway/pkg/api"
)

// State of the one-shot session resolution.
type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateResolving:
		return "RESOLVING"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Gateway is the session-facing slice of the gateway client.
type Gateway interface {
	CreateSession(ctx context.Context) (string, error)
	CheckSession(ctx context.Context, sessionID string) (bool, error)
	History(ctx context.Context, sessionID string) ([]api.ChatMessage, error)
}

// Controller resolves a usable session id once per run: reuse the stored id
// if the backend still considers it valid, otherwise create and persist a
// fresh one. There is no automatic retry after failure.
type Controller struct {
	store Store
	gw    Gateway

	mu        sync.Mutex
	state     State
	sessionID string
	history   []api.ChatMessage
}

func NewController(store Store, gw Gateway) *Controller {
	return &Controller{store: store, gw: gw, state: StateUninitialized}
}

func (c *Controller) Resolve(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateUninitialized {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("session resolution already ran (state %s)", state)
	}
	c.state = StateResolving
	c.mu.Unlock()

	stored, ok, err := c.store.Get()
	if err != nil {
		slog.Warn("error reading stored session id, treating as absent", "error", err)
		ok = false
	}

	if ok && stored != "" {
		valid, err := c.gw.CheckSession(ctx, stored)
		if err != nil {
			slog.Warn("session check failed, treating stored session as invalid", "session_id", stored, "error", err)
			valid = false
		}
		if valid {
			c.finish(StateReady, stored)
			c.loadHistory(ctx, stored)
			return nil
		}
		if err := c.store.Clear(); err != nil {
			slog.Warn("error discarding stale session id", "error", err)
		}
	}

	created, err := c.gw.CreateSession(ctx)
	if err != nil {
		c.finish(StateFailed, "")
		return fmt.Errorf("creating session: %w", err)
	}
	if err := c.store.Set(created); err != nil {
		slog.Warn("error persisting session id", "session_id", created, "error", err)
	}
	c.finish(StateReady, created)
	return nil
}

// loadHistory is best effort. A failure leaves the transcript empty; it
// never reverts a Ready state.
func (c *Controller) loadHistory(ctx context.Context, sessionID string) {
	history, err := c.gw.History(ctx, sessionID)
	if err != nil {
		slog.Warn("failed to load chat history", "session_id", sessionID, "error", err)
		return
	}
	c.mu.Lock()
	c.history = history
	c.mu.Unlock()
}

func (c *Controller) finish(state State, sessionID string) {
	c.mu.Lock()
	c.state = state
	c.sessionID = sessionID
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the resolved id; ok is false unless the controller is
// Ready.
func (c *Controller) SessionID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID, c.state == StateReady
}

// History returns the transcript loaded at resolution, oldest first.
func (c *Controller) History() []api.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.ChatMessage, len(c.history))
	copy(out, c.history)
	return out
}

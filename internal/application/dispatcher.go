package application

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nacho-herrera/go-cocos/internal/adapters/rest"
	"github.com/nacho-herrera/go-cocos/internal/domain"
)

// SessionSource is the slice of the session manager the dispatcher needs:
// borrow the current session, and report back when the server says it died.
type SessionSource interface {
	CurrentSession() (domain.Session, error)
	MarkExpired()
}

// Dispatcher attaches the borrowed session to outbound calls. It refuses to
// touch the network without one, and flips the session manager back to
// unauthenticated when a call comes back with an expired session.
type Dispatcher struct {
	client   *rest.Client
	sessions SessionSource
	apiKey   string
}

func NewDispatcher(client *rest.Client, sessions SessionSource, apiKey string) *Dispatcher {
	if apiKey == "" {
		apiKey = domain.DefaultAPIKey
	}

	return &Dispatcher{
		client:   client,
		sessions: sessions,
		apiKey:   apiKey,
	}
}

// Call authorizes and executes one request, returning the raw JSON body
// verbatim.
func (d *Dispatcher) Call(ctx context.Context, req rest.Request) (json.RawMessage, error) {
	session, err := d.sessions.CurrentSession()
	if err != nil {
		return nil, err
	}

	req.Auth = rest.Auth{
		Token:     session.Token,
		AccountID: session.AccountID,
		APIKey:    d.apiKey,
	}

	raw, err := d.client.Do(ctx, req)
	if err != nil && errors.Is(err, domain.ErrSessionExpired) {
		d.sessions.MarkExpired()
	}

	return raw, err
}

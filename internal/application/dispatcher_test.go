package application

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nacho-herrera/go-cocos/internal/adapters/rest"
	"github.com/nacho-herrera/go-cocos/internal/domain"
)

type stubSessions struct {
	session domain.Session
	err     error
	expired atomic.Bool
}

func (s *stubSessions) CurrentSession() (domain.Session, error) {
	return s.session, s.err
}

func (s *stubSessions) MarkExpired() {
	s.expired.Store(true)
}

func TestDispatcherRefusesWithoutSession(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := rest.NewClient(rest.Options{BaseURL: server.URL, Logger: zerolog.Nop()})
	sessions := &stubSessions{err: domain.ErrNotAuthenticated}
	dispatcher := NewDispatcher(client, sessions, "")

	_, err := dispatcher.Call(context.Background(), rest.MyDataRequest())
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Zero(t, calls.Load(), "must not touch the network without a session")
}

func TestDispatcherSignsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		assert.Equal(t, "10425", r.Header.Get("x-account-id"))
		assert.Equal(t, "per-profile-key", r.Header.Get("recaptcha-token"))
		_, _ = fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	client := rest.NewClient(rest.Options{BaseURL: server.URL, Logger: zerolog.Nop()})
	sessions := &stubSessions{session: domain.Session{Token: "session-token", AccountID: "10425"}}
	dispatcher := NewDispatcher(client, sessions, "per-profile-key")

	raw, err := dispatcher.Call(context.Background(), rest.MyDataRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.False(t, sessions.expired.Load())
}

func TestDispatcherDefaultsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, domain.DefaultAPIKey, r.Header.Get("recaptcha-token"))
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := rest.NewClient(rest.Options{BaseURL: server.URL, Logger: zerolog.Nop()})
	sessions := &stubSessions{session: domain.Session{Token: "t", AccountID: "1"}}
	dispatcher := NewDispatcher(client, sessions, "")

	_, err := dispatcher.Call(context.Background(), rest.MyDataRequest())
	require.NoError(t, err)
}

func TestDispatcherMarksSessionExpiredOn401(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"message":"JWT expired"}`)
	}))
	defer server.Close()

	client := rest.NewClient(rest.Options{BaseURL: server.URL, Logger: zerolog.Nop()})
	sessions := &stubSessions{session: domain.Session{Token: "stale", AccountID: "10425"}}
	dispatcher := NewDispatcher(client, sessions, "")

	_, err := dispatcher.Call(context.Background(), rest.MyDataRequest())
	require.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.True(t, sessions.expired.Load())
}

func TestDispatcherLeavesSessionAloneOnOtherErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"message":"boom"}`)
	}))
	defer server.Close()

	client := rest.NewClient(rest.Options{BaseURL: server.URL, Logger: zerolog.Nop()})
	sessions := &stubSessions{session: domain.Session{Token: "t", AccountID: "1"}}
	dispatcher := NewDispatcher(client, sessions, "")

	var apiErr *rest.APIError
	_, err := dispatcher.Call(context.Background(), rest.MyDataRequest())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.False(t, sessions.expired.Load())
}

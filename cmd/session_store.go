package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nacho-herrera/go-cocos/internal/domain"
)

// storedSession is the JSON shape persisted in the secret store between
// invocations. The server decides how long the token actually lives.
type storedSession struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id,omitempty"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

func sessionRef(profileID domain.ProfileID) string {
	return fmt.Sprintf("cocos://%s/session", profileID)
}

func decodeStoredSession(secretValue string) (storedSession, error) {
	var session storedSession
	if err := json.Unmarshal([]byte(secretValue), &session); err != nil {
		return storedSession{}, fmt.Errorf("decode stored session: %w", err)
	}
	if strings.TrimSpace(session.Token) == "" {
		return storedSession{}, fmt.Errorf("stored session missing token")
	}
	return session, nil
}

func encodeStoredSession(session storedSession) (string, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("encode stored session: %w", err)
	}
	return string(payload), nil
}

func loadStoredSession(ctx context.Context, a *app, profileID domain.ProfileID) (domain.Session, error) {
	secretValue, err := a.secrets.Get(ctx, sessionRef(profileID))
	if err != nil {
		return domain.Session{}, err
	}

	stored, err := decodeStoredSession(secretValue)
	if err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		Token:     stored.Token,
		AccountID: stored.AccountID,
		Email:     stored.Email,
		CreatedAt: time.Unix(stored.CreatedAt, 0),
	}, nil
}

func saveStoredSession(ctx context.Context, a *app, profileID domain.ProfileID, session domain.Session) error {
	secretValue, err := encodeStoredSession(storedSession{
		Token:     session.Token,
		AccountID: session.AccountID,
		Email:     session.Email,
		CreatedAt: session.CreatedAt.Unix(),
	})
	if err != nil {
		return err
	}

	return a.secrets.Put(ctx, sessionRef(profileID), secretValue)
}

func deleteStoredSession(ctx context.Context, a *app, profileID domain.ProfileID) error {
	return a.secrets.Delete(ctx, sessionRef(profileID))
}

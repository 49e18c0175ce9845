package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nacho-herrera/go-cocos/internal/adapters/rest"
	"github.com/nacho-herrera/go-cocos/internal/domain"
	"github.com/nacho-herrera/go-cocos/internal/ports"
)

// SessionService owns the login state machine. Login and Logout are
// serialized; CurrentSession is safe to call concurrently once
// authenticated.
type SessionService struct {
	client   *rest.Client
	resolver *SecondFactorResolver
	clock    ports.Clock

	mu      sync.RWMutex
	state   domain.SessionState
	session domain.Session
}

func NewSessionService(client *rest.Client, resolver *SecondFactorResolver, clock ports.Clock) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SessionService{
		client:   client,
		resolver: resolver,
		clock:    clock,
		state:    domain.StateUnauthenticated,
	}
}

// Login runs the full handshake: password grant, second-factor challenge
// when the account has one enrolled, then account binding. Any previous
// session is discarded first.
func (s *SessionService) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.StateUnauthenticated
	s.session = domain.Session{}

	token, err := s.client.ObtainToken(ctx, creds.Email, creds.Password, creds.APIKey)
	if err != nil {
		return domain.Session{}, authFailure("obtain token", err)
	}

	auth := rest.Auth{Token: token.AccessToken, APIKey: creds.APIKey}

	factor, err := s.client.DefaultFactor(ctx, auth)
	if err != nil {
		return domain.Session{}, authFailure("fetch default factor", err)
	}

	if factor.ID != "" {
		s.state = domain.StateAwaitingSecondFactor

		verified, err := s.completeSecondFactor(ctx, auth, factor, creds)
		if err != nil {
			s.state = domain.StateUnauthenticated
			return domain.Session{}, err
		}
		auth.Token = verified.AccessToken
	}

	accountID, err := s.bindAccount(ctx, auth)
	if err != nil {
		s.state = domain.StateUnauthenticated
		return domain.Session{}, err
	}

	s.session = domain.Session{
		Token:     auth.Token,
		CreatedAt: s.clock.Now(),
		Email:     creds.Email,
		AccountID: accountID,
	}
	s.state = domain.StateAuthenticated

	return s.session, nil
}

// completeSecondFactor opens a challenge, resolves a code and verifies it.
// A rejected interactive code is re-prompted exactly once; a rejected
// generated code fails immediately because the same window would produce
// the same code again.
func (s *SessionService) completeSecondFactor(ctx context.Context, auth rest.Auth, factor rest.Factor, creds domain.Credentials) (rest.TokenResponse, error) {
	opened, err := s.client.RequestChallenge(ctx, auth, factor.ID)
	if err != nil {
		return rest.TokenResponse{}, authFailure("open second factor challenge", err)
	}

	challenge := domain.SecondFactorChallenge{
		FactorID:    factor.ID,
		ChallengeID: opened.ID,
		Method:      factorMethod(factor.FactorType),
		Destination: factor.Destination,
	}

	code, interactive, err := s.resolver.Resolve(ctx, challenge, creds)
	if err != nil {
		return rest.TokenResponse{}, fmt.Errorf("%w: %w", domain.ErrAuthenticationFailed, err)
	}

	verified, err := s.client.VerifyChallenge(ctx, auth, factor.ID, challenge.ChallengeID, code)
	if err == nil {
		return verified, nil
	}
	if !isRejection(err) {
		return rest.TokenResponse{}, authFailure("verify second factor", err)
	}
	if !interactive {
		return rest.TokenResponse{}, fmt.Errorf("%w: %w", domain.ErrAuthenticationFailed, domain.ErrSecondFactorRejected)
	}

	code, err = s.resolver.Prompt(ctx, challenge)
	if err != nil {
		return rest.TokenResponse{}, fmt.Errorf("%w: %w", domain.ErrAuthenticationFailed, err)
	}

	verified, err = s.client.VerifyChallenge(ctx, auth, factor.ID, challenge.ChallengeID, code)
	if err != nil {
		if isRejection(err) {
			return rest.TokenResponse{}, fmt.Errorf("%w: %w", domain.ErrAuthenticationFailed, domain.ErrSecondFactorRejected)
		}
		return rest.TokenResponse{}, authFailure("verify second factor", err)
	}

	return verified, nil
}

// bindAccount fetches the account owner's data and picks the first account
// number, replicating the web app's post-login step.
func (s *SessionService) bindAccount(ctx context.Context, auth rest.Auth) (string, error) {
	req := rest.MyDataRequest()
	req.Auth = auth

	raw, err := s.client.Do(ctx, req)
	if err != nil {
		return "", authFailure("fetch account data", err)
	}

	var me struct {
		IDAccounts []json.Number `json:"id_accounts"`
	}
	if err := json.Unmarshal(raw, &me); err != nil {
		return "", &rest.ProtocolError{Err: fmt.Errorf("decode account data: %w", err)}
	}
	if len(me.IDAccounts) == 0 {
		return "", fmt.Errorf("%w: no accounts associated with this user", domain.ErrAuthenticationFailed)
	}

	return me.IDAccounts[0].String(), nil
}

// CurrentSession returns the held session while authenticated.
func (s *SessionService) CurrentSession() (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != domain.StateAuthenticated {
		return domain.Session{}, domain.ErrNotAuthenticated
	}

	return s.session, nil
}

// Restore adopts a previously issued session, for callers that persist the
// token between runs. The token is not verified here; the first API call
// will reject it if it expired.
func (s *SessionService) Restore(session domain.Session) error {
	if session.IsZero() {
		return domain.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.StateAuthenticated
	s.session = session
	return nil
}

func (s *SessionService) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Logout invalidates the session server-side on a best-effort basis and
// always clears local state. Calling it while already logged out is a no-op.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateAuthenticated {
		return nil
	}

	err := s.client.Logout(ctx, rest.Auth{Token: s.session.Token, AccountID: s.session.AccountID})

	s.state = domain.StateUnauthenticated
	s.session = domain.Session{}

	if err != nil {
		return fmt.Errorf("server-side logout: %w", err)
	}
	return nil
}

// MarkExpired drops the session after a downstream call reported it
// expired. The caller must log in again; there is no automatic refresh.
func (s *SessionService) MarkExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.StateUnauthenticated
	s.session = domain.Session{}
}

func factorMethod(factorType string) domain.FactorMethod {
	switch factorType {
	case "totp":
		return domain.FactorTOTP
	case "sms", "phone":
		return domain.FactorSMS
	case "email":
		return domain.FactorEmail
	default:
		return domain.FactorMethod(factorType)
	}
}

// authFailure maps structured server rejections to ErrAuthenticationFailed
// while letting transport and protocol failures pass through untouched.
func authFailure(op string, err error) error {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w: %s", op, domain.ErrAuthenticationFailed, apiErr.Error())
	}

	return fmt.Errorf("%s: %w", op, err)
}

// isRejection reports whether the server judged the submitted code invalid,
// as opposed to the call failing outright.
func isRejection(err error) bool {
	var apiErr *rest.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.Status {
	case 400, 401, 403, 422:
		return true
	default:
		return false
	}
}

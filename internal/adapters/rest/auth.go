package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Factor is a second-factor enrolment. A zero ID means the account has no
// second factor and the password token is already the session token.
type Factor struct {
	ID          string `json:"id"`
	FactorType  string `json:"factor_type"`
	Destination string `json:"destination"`
}

type ChallengeResponse struct {
	ID string `json:"id"`
}

// ObtainToken exchanges email and password for an access token. The broker
// uses the password grant of its auth gateway.
func (c *Client) ObtainToken(ctx context.Context, email, password, apiKey string) (TokenResponse, error) {
	raw, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   pathToken,
		Query:  url.Values{"grant_type": {"password"}},
		Body:   map[string]string{"email": email, "password": password},
		Auth:   Auth{APIKey: apiKey},
	})
	if err != nil {
		return TokenResponse{}, err
	}

	var token TokenResponse
	if err := json.Unmarshal(raw, &token); err != nil {
		return TokenResponse{}, &ProtocolError{Status: http.StatusOK, Err: fmt.Errorf("decode token response: %w", err)}
	}
	if token.AccessToken == "" {
		return TokenResponse{}, &ProtocolError{Status: http.StatusOK, Err: errors.New("token response missing access token")}
	}

	return token, nil
}

// DefaultFactor fetches the account's default second-factor enrolment.
func (c *Client) DefaultFactor(ctx context.Context, token Auth) (Factor, error) {
	raw, err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   pathDefaultFactor,
		Auth:   token,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return Factor{}, nil
		}
		return Factor{}, err
	}
	if len(raw) == 0 {
		return Factor{}, nil
	}

	var factor Factor
	if err := json.Unmarshal(raw, &factor); err != nil {
		return Factor{}, &ProtocolError{Status: http.StatusOK, Err: fmt.Errorf("decode factor response: %w", err)}
	}

	return factor, nil
}

// RequestChallenge asks the server to open a challenge against the factor,
// which triggers code delivery for SMS and email factors.
func (c *Client) RequestChallenge(ctx context.Context, token Auth, factorID string) (ChallengeResponse, error) {
	raw, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   pathChallenge(factorID),
		Auth:   token,
	})
	if err != nil {
		return ChallengeResponse{}, err
	}

	var challenge ChallengeResponse
	if err := json.Unmarshal(raw, &challenge); err != nil {
		return ChallengeResponse{}, &ProtocolError{Status: http.StatusOK, Err: fmt.Errorf("decode challenge response: %w", err)}
	}
	if challenge.ID == "" {
		return ChallengeResponse{}, &ProtocolError{Status: http.StatusOK, Err: errors.New("challenge response missing id")}
	}

	return challenge, nil
}

// VerifyChallenge submits the second-factor code and returns the elevated
// session token.
func (c *Client) VerifyChallenge(ctx context.Context, token Auth, factorID, challengeID, code string) (TokenResponse, error) {
	raw, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   pathVerify(factorID),
		Body:   map[string]string{"challenge_id": challengeID, "code": code},
		Auth:   token,
	})
	if err != nil {
		return TokenResponse{}, err
	}

	var verified TokenResponse
	if err := json.Unmarshal(raw, &verified); err != nil {
		return TokenResponse{}, &ProtocolError{Status: http.StatusOK, Err: fmt.Errorf("decode verify response: %w", err)}
	}
	if verified.AccessToken == "" {
		return TokenResponse{}, &ProtocolError{Status: http.StatusOK, Err: errors.New("verify response missing access token")}
	}

	return verified, nil
}

// Logout invalidates the session server-side.
func (c *Client) Logout(ctx context.Context, token Auth) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   pathLogout,
		Auth:   token,
	})
	return err
}

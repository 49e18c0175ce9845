package domain

import "strings"

// DefaultAPIKey is the public web-app key the broker accepts on login
// requests. Callers may override it per profile.
const DefaultAPIKey = "6LdZ0vYeAAAAAEjWZhIGYYUblHCr0btnHp02ZXKK"

// Credentials holds everything needed to open a session. The zero value is
// not usable; construct through NewCredentials so the required fields are
// checked before anything reaches the network.
type Credentials struct {
	Email      string
	Password   string
	APIKey     string
	TOTPSecret string
}

func NewCredentials(email, password string) (Credentials, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return Credentials{}, ErrInvalidCredentials
	}

	return Credentials{
		Email:    email,
		Password: password,
		APIKey:   DefaultAPIKey,
	}, nil
}

func (c Credentials) HasTOTPSecret() bool {
	return strings.TrimSpace(c.TOTPSecret) != ""
}

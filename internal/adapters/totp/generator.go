// Package totp generates time-based one-time passwords for accounts
// enrolled with an authenticator app.
package totp

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/nacho-herrera/go-cocos/internal/domain"
)

// Generator produces the standard 6-digit, 30-second-window, SHA1 codes the
// broker's authenticator enrolment uses.
type Generator struct{}

// GenerateCode returns the code for the given secret at the given instant.
// Calls within the same 30-second window return the same code.
func (Generator) GenerateCode(secret string, at time.Time) (string, error) {
	code, err := totp.GenerateCode(strings.TrimSpace(secret), at)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidSecret, err)
	}

	return code, nil
}

package application

import (
	"context"
	"fmt"
	"time"

	"github.com/nacho-herrera/go-cocos/internal/domain"
	"github.com/nacho-herrera/go-cocos/internal/ports"
)

// CodeGenerator produces a one-time password from a stored secret.
type CodeGenerator interface {
	GenerateCode(secret string, at time.Time) (string, error)
}

// SecondFactorResolver decides how a challenge gets answered: generated
// locally when the account carries a TOTP secret, or typed in by the user
// for everything else.
type SecondFactorResolver struct {
	generator CodeGenerator
	prompter  ports.CodePrompter
	clock     ports.Clock
}

func NewSecondFactorResolver(generator CodeGenerator, prompter ports.CodePrompter, clock ports.Clock) *SecondFactorResolver {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SecondFactorResolver{
		generator: generator,
		prompter:  prompter,
		clock:     clock,
	}
}

// Resolve returns the code plus whether it came from the interactive
// prompt. Interactive codes may be re-prompted once by the caller after a
// rejection; generated codes may not, since regenerating inside the same
// time window yields the same code.
func (r *SecondFactorResolver) Resolve(ctx context.Context, challenge domain.SecondFactorChallenge, creds domain.Credentials) (code string, interactive bool, err error) {
	if challenge.Method == domain.FactorTOTP && creds.HasTOTPSecret() {
		code, err := r.generator.GenerateCode(creds.TOTPSecret, r.clock.Now())
		if err != nil {
			return "", false, err
		}
		return code, false, nil
	}

	code, err = r.prompter.PromptCode(ctx, challenge)
	if err != nil {
		return "", true, err
	}

	return code, true, nil
}

// Prompt forces interactive entry regardless of any stored secret, used for
// the single re-prompt after a rejected interactive code.
func (r *SecondFactorResolver) Prompt(ctx context.Context, challenge domain.SecondFactorChallenge) (string, error) {
	code, err := r.prompter.PromptCode(ctx, challenge)
	if err != nil {
		return "", fmt.Errorf("re-prompt second factor: %w", err)
	}

	return code, nil
}

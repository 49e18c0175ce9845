package ports

import (
	"context"

	"github.com/nacho-herrera/go-cocos/internal/domain"
)

// CodePrompter is the interactive boundary for second-factor codes that
// cannot be generated locally. Implementations block until a code is entered
// or the context expires.
type CodePrompter interface {
	PromptCode(ctx context.Context, challenge domain.SecondFactorChallenge) (string, error)
}

// Package prompt implements the interactive second-factor boundary as a
// blocking console read.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nacho-herrera/go-cocos/internal/domain"
	"github.com/nacho-herrera/go-cocos/internal/ports"
)

const defaultEntryTimeout = 2 * time.Minute

type ConsolePrompter struct {
	In      io.Reader
	Out     io.Writer
	Timeout time.Duration
}

var _ ports.CodePrompter = (*ConsolePrompter)(nil)

type readResult struct {
	code string
	err  error
}

// PromptCode writes the challenge description and blocks until a code is
// typed, the timeout elapses or ctx is cancelled.
func (p *ConsolePrompter) PromptCode(ctx context.Context, challenge domain.SecondFactorChallenge) (string, error) {
	_, _ = fmt.Fprintf(p.Out, "%s\nCode: ", describeChallenge(challenge))

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultEntryTimeout
	}

	resultCh := make(chan readResult, 1)
	go func() {
		scanner := bufio.NewScanner(p.In)
		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = io.EOF
			}
			resultCh <- readResult{err: fmt.Errorf("read second factor code: %w", err)}
			return
		}
		resultCh <- readResult{code: strings.TrimSpace(scanner.Text())}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-resultCh:
		if result.err != nil {
			return "", result.err
		}
		if result.code == "" {
			return "", fmt.Errorf("%w: empty code", domain.ErrSecondFactorRejected)
		}
		return result.code, nil
	case <-timer.C:
		return "", domain.ErrSecondFactorTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func describeChallenge(challenge domain.SecondFactorChallenge) string {
	switch challenge.Method {
	case domain.FactorSMS:
		if challenge.Destination != "" {
			return fmt.Sprintf("A verification code was sent by SMS to %s.", challenge.Destination)
		}
		return "A verification code was sent by SMS."
	case domain.FactorEmail:
		if challenge.Destination != "" {
			return fmt.Sprintf("A verification code was sent to %s.", challenge.Destination)
		}
		return "A verification code was sent by email."
	case domain.FactorTOTP:
		return "Enter the code from your authenticator app."
	default:
		return "Enter your verification code."
	}
}

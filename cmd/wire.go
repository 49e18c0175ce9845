package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/nacho-herrera/go-cocos/internal/adapters/prompt"
	portfolioadapter "github.com/nacho-herrera/go-cocos/internal/adapters/render/portfolio"
	tomlrepo "github.com/nacho-herrera/go-cocos/internal/adapters/repo/toml"
	"github.com/nacho-herrera/go-cocos/internal/adapters/rest"
	chainstore "github.com/nacho-herrera/go-cocos/internal/adapters/secrets/chain"
	"github.com/nacho-herrera/go-cocos/internal/adapters/totp"
	"github.com/nacho-herrera/go-cocos/internal/application"
	"github.com/nacho-herrera/go-cocos/internal/domain"
	"github.com/nacho-herrera/go-cocos/internal/ports"
)

type app struct {
	profiles        ports.ProfileRepository
	secrets         ports.SecretStore
	client          *rest.Client
	renderPortfolio func(portfolioadapter.Summary, portfolioadapter.RenderOptions) (string, error)
	promptTimeout   time.Duration
	now             func() time.Time
}

func wireApp() (*app, error) {
	profiles, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secrets, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, ".cocos", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	logger := zerolog.Nop()
	if os.Getenv("COCOS_DEBUG") != "" {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	client := rest.NewClient(rest.Options{
		BaseURL: envOrDefault("COCOS_BASE_URL", rest.DefaultBaseURL),
		Logger:  logger,
	})

	return &app{
		profiles:        profiles,
		secrets:         secrets,
		client:          client,
		renderPortfolio: portfolioadapter.Render,
		promptTimeout:   2 * time.Minute,
		now:             time.Now,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// sessionService builds the full login machinery: TOTP generation when the
// profile carries a secret, console prompt otherwise.
func (a *app) sessionService(in io.Reader, out io.Writer) *application.SessionService {
	prompter := &prompt.ConsolePrompter{In: in, Out: out, Timeout: a.promptTimeout}
	resolver := application.NewSecondFactorResolver(totp.Generator{}, prompter, ports.SystemClock{})
	return application.NewSessionService(a.client, resolver, ports.SystemClock{})
}

func (a *app) broker(sessions application.SessionSource, apiKey string) *application.BrokerService {
	return application.NewBrokerService(application.NewDispatcher(a.client, sessions, apiKey))
}

// resolveProfile picks the profile by ID, or the only configured one when
// no ID was given.
func resolveProfile(ctx context.Context, a *app, id string) (domain.Profile, error) {
	if id != "" {
		return a.profiles.GetByID(ctx, domain.ProfileID(id))
	}

	profiles, err := a.profiles.List(ctx)
	if err != nil {
		return domain.Profile{}, err
	}

	switch len(profiles) {
	case 0:
		return domain.Profile{}, errors.New("no profiles configured, run \"cocos profile add\" first")
	case 1:
		return profiles[0], nil
	default:
		return domain.Profile{}, errors.New("multiple profiles configured, pass --profile")
	}
}

// restoredSession rebuilds an authenticated session service from the token
// stored at login time.
func restoredSession(ctx context.Context, a *app, profile domain.Profile) (*application.SessionService, error) {
	session, err := loadStoredSession(ctx, a, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("no active session for profile %q, run \"cocos login\": %w", profile.ID, err)
	}

	svc := a.sessionService(os.Stdin, os.Stderr)
	if err := svc.Restore(session); err != nil {
		return nil, err
	}

	return svc, nil
}

// withLoginHint tells the user how to recover from an expired session.
func withLoginHint(err error, profileID domain.ProfileID) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrNotAuthenticated) {
		return fmt.Errorf("%w; run \"cocos login --profile %s\"", err, profileID)
	}
	return err
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nacho-herrera/go-cocos/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store a session for later commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			creds, err := credentialsFor(cmd, app, profile)
			if err != nil {
				return err
			}

			svc := app.sessionService(cmd.InOrStdin(), cmd.ErrOrStderr())
			session, err := svc.Login(cmd.Context(), creds)
			if err != nil {
				return fmt.Errorf("login profile %q: %w", profile.ID, err)
			}

			if err := saveStoredSession(cmd.Context(), app, profile.ID, session); err != nil {
				return fmt.Errorf("store session: %w", err)
			}

			profile.LastAccountID = session.AccountID
			if err := app.profiles.Save(cmd.Context(), profile); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (account %s)\n", session.Email, session.AccountID)
			return nil
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to log in with")

	return cmd
}

func credentialsFor(cmd *cobra.Command, app *app, profile domain.Profile) (domain.Credentials, error) {
	if profile.PasswordRef == "" {
		return domain.Credentials{}, fmt.Errorf("profile %q has no stored password, run \"cocos profile add\" again", profile.ID)
	}

	password, err := app.secrets.Get(cmd.Context(), profile.PasswordRef)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("load password: %w", err)
	}

	creds, err := domain.NewCredentials(profile.Email, password)
	if err != nil {
		return domain.Credentials{}, err
	}

	if profile.APIKey != "" {
		creds.APIKey = profile.APIKey
	}

	if profile.TOTPSecretRef != "" {
		secret, err := app.secrets.Get(cmd.Context(), profile.TOTPSecretRef)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("load totp secret: %w", err)
		}
		creds.TOTPSecret = secret
	}

	return creds, nil
}

func newLogoutCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			svc, err := restoredSession(cmd.Context(), app, profile)
			if err == nil {
				// Best effort: the local session is dropped even when
				// the server call fails.
				if logoutErr := svc.Logout(cmd.Context()); logoutErr != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", logoutErr)
				}
			}

			if err := deleteStoredSession(cmd.Context(), app, profile.ID); err != nil {
				return fmt.Errorf("drop stored session: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged out profile %s\n", profile.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to log out")

	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nacho-herrera/go-cocos/internal/domain"
)

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage login profiles",
	}

	cmd.AddCommand(
		newProfileAddCmd(app),
		newProfileListCmd(app),
		newProfileRemoveCmd(app),
	)

	return cmd
}

func newProfileAddCmd(app *app) *cobra.Command {
	var (
		id         string
		name       string
		email      string
		password   string
		totpSecret string
		apiKey     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a login profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := domain.Profile{
				ID:     domain.ProfileID(id),
				Name:   name,
				Email:  email,
				APIKey: apiKey,
			}
			if profile.Name == "" {
				profile.Name = id
			}

			profile.PasswordRef = fmt.Sprintf("cocos://%s/password", id)
			if err := app.secrets.Put(cmd.Context(), profile.PasswordRef, password); err != nil {
				return fmt.Errorf("store password: %w", err)
			}

			if totpSecret != "" {
				profile.TOTPSecretRef = fmt.Sprintf("cocos://%s/totp", id)
				if err := app.secrets.Put(cmd.Context(), profile.TOTPSecretRef, totpSecret); err != nil {
					return fmt.Errorf("store totp secret: %w", err)
				}
			}

			if err := app.profiles.Save(cmd.Context(), profile); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %s saved\n", profile.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Profile ID")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the ID)")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	cmd.Flags().StringVar(&totpSecret, "totp-secret", "", "Authenticator secret for automatic second-factor codes")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Override the built-in recaptcha site key")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newProfileListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := app.profiles.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, profile := range profiles {
				second := "prompt"
				if profile.TOTPSecretRef != "" {
					second = "totp"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", profile.ID, profile.Name, profile.Email, second)
			}

			return nil
		},
	}
}

func newProfileRemoveCmd(app *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a profile and its stored secrets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := app.profiles.GetByID(cmd.Context(), domain.ProfileID(id))
			if err != nil {
				return err
			}

			if profile.PasswordRef != "" {
				_ = app.secrets.Delete(cmd.Context(), profile.PasswordRef)
			}
			if profile.TOTPSecretRef != "" {
				_ = app.secrets.Delete(cmd.Context(), profile.TOTPSecretRef)
			}
			_ = deleteStoredSession(cmd.Context(), app, profile.ID)

			if err := app.profiles.Delete(cmd.Context(), profile.ID); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %s removed\n", profile.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Profile ID")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			session, err := loadStoredSession(cmd.Context(), app, profile.ID)
			if err != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): not logged in\n", profile.ID, profile.Email)
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): logged in, account %s, since %s\n",
				profile.ID, profile.Email, session.AccountID, session.CreatedAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to inspect")

	return cmd
}

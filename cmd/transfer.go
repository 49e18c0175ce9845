package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nacho-herrera/go-cocos/internal/application"
	"github.com/nacho-herrera/go-cocos/internal/domain"
)

func newTransferCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Account activity, bank accounts and withdrawals",
	}

	cmd.AddCommand(
		newTransferActivityCmd(app),
		newTransferAccountsCmd(app),
		newTransferAddAccountCmd(app),
		newTransferWithdrawCmd(app),
		newTransferReceiptCmd(app),
	)

	return cmd
}

func newTransferActivityCmd(app *app) *cobra.Command {
	var (
		profileID string
		dateFrom  string
		dateTo    string
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "List account movements in a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.AccountActivity(cmd.Context(), dateFrom, dateTo)
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().StringVar(&dateFrom, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateTo, "to", "", "End date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newTransferAccountsCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List registered bank accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.BankAccounts(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newTransferAddAccountCmd(app *app) *cobra.Command {
	var (
		profileID string
		cbu       string
		cuit      string
		currency  string
	)

	cmd := &cobra.Command{
		Use:   "add-account",
		Short: "Register a bank account for withdrawals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsedCurrency, err := domain.ParseCurrency(currency)
			if err != nil {
				return err
			}

			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.SubmitNewBankAccount(cmd.Context(), cbu, cuit, parsedCurrency)
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().StringVar(&cbu, "cbu", "", "CBU or CVU")
	cmd.Flags().StringVar(&cuit, "cuit", "", "Tax ID of the account holder")
	cmd.Flags().StringVar(&currency, "currency", "ARS", "Account currency")
	_ = cmd.MarkFlagRequired("cbu")
	_ = cmd.MarkFlagRequired("cuit")

	return cmd
}

func newTransferWithdrawCmd(app *app) *cobra.Command {
	var (
		profileID string
		cbu       string
		amount    string
		currency  string
	)

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw funds to a registered bank account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsedCurrency, err := domain.ParseCurrency(currency)
			if err != nil {
				return err
			}

			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			svc, err := restoredSession(cmd.Context(), app, profile)
			if err != nil {
				return err
			}

			raw, err := app.broker(svc, profile.APIKey).WithdrawFunds(cmd.Context(), parsedCurrency, amount, cbu)
			if err != nil {
				return withLoginHint(err, profile.ID)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Withdrawal of %s %s to %s submitted\n", amount, parsedCurrency.Wire(), cbu)
			if len(raw) > 0 {
				return writeJSON(cmd.OutOrStdout(), raw)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().StringVar(&cbu, "cbu", "", "Destination CBU or CVU (must be registered)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to withdraw")
	cmd.Flags().StringVar(&currency, "currency", "ARS", "Currency")
	_ = cmd.MarkFlagRequired("cbu")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newTransferReceiptCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "receipt <receipt-id>",
		Short: "Fetch a transfer receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.TransferReceipt(cmd.Context(), args[0])
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nacho-herrera/go-cocos/internal/application"
	"github.com/nacho-herrera/go-cocos/internal/domain"
)

func newOrderCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place, inspect and cancel orders",
	}

	cmd.AddCommand(
		newOrderListCmd(app),
		newOrderShowCmd(app),
		newOrderBuyCmd(app),
		newOrderSellCmd(app),
		newOrderCancelCmd(app),
		newOrderRepoCmd(app),
	)

	return cmd
}

func newOrderListCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			svc, err := restoredSession(cmd.Context(), app, profile)
			if err != nil {
				return err
			}

			raw, err := app.broker(svc, profile.APIKey).OrderStatus(cmd.Context(), "")
			if err != nil {
				return withLoginHint(err, profile.ID)
			}

			return writeJSON(cmd.OutOrStdout(), raw)
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newOrderShowCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "show <order-number>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			svc, err := restoredSession(cmd.Context(), app, profile)
			if err != nil {
				return err
			}

			raw, err := app.broker(svc, profile.APIKey).OrderStatus(cmd.Context(), args[0])
			if err != nil {
				return withLoginHint(err, profile.ID)
			}

			return writeJSON(cmd.OutOrStdout(), raw)
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newOrderBuyCmd(app *app) *cobra.Command {
	return newOrderSubmitCmd(app, domain.OrderSideBuy)
}

func newOrderSellCmd(app *app) *cobra.Command {
	return newOrderSubmitCmd(app, domain.OrderSideSell)
}

func newOrderSubmitCmd(app *app, side domain.OrderSide) *cobra.Command {
	var (
		profileID  string
		longTicker string
		quantity   string
		price      string
		market     bool
	)

	use := "buy"
	short := "Place a buy order"
	if side == domain.OrderSideSell {
		use = "sell"
		short = "Place a sell order"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			svc, err := restoredSession(cmd.Context(), app, profile)
			if err != nil {
				return err
			}
			broker := app.broker(svc, profile.APIKey)

			ticket := application.OrderTicket{
				LongTicker: longTicker,
				Quantity:   quantity,
				Price:      price,
				Type:       domain.OrderTypeLimit,
			}
			if market {
				ticket.Type = domain.OrderTypeMarket
			}

			var raw []byte
			if side == domain.OrderSideBuy {
				raw, err = broker.SubmitBuyOrder(cmd.Context(), ticket)
			} else {
				raw, err = broker.SubmitSellOrder(cmd.Context(), ticket)
			}
			if err != nil {
				return withLoginHint(err, profile.ID)
			}

			return writeJSON(cmd.OutOrStdout(), raw)
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().StringVar(&longTicker, "long-ticker", "", "Fully qualified instrument, e.g. GGAL-0003-C-CT-ARS")
	cmd.Flags().StringVar(&quantity, "quantity", "", "Order quantity")
	cmd.Flags().StringVar(&price, "price", "", "Limit price")
	cmd.Flags().BoolVar(&market, "market", false, "Send a market order instead of a limit order")
	_ = cmd.MarkFlagRequired("long-ticker")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newOrderCancelCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "cancel <order-number>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			svc, err := restoredSession(cmd.Context(), app, profile)
			if err != nil {
				return err
			}

			raw, err := app.broker(svc, profile.APIKey).CancelOrder(cmd.Context(), args[0])
			if err != nil {
				return withLoginHint(err, profile.ID)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order %s cancelled\n", args[0])
			if len(raw) > 0 {
				return writeJSON(cmd.OutOrStdout(), raw)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newOrderRepoCmd(app *app) *cobra.Command {
	var (
		profileID string
		currency  string
		amount    float64
		term      int
		rate      float64
	)

	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Lend funds for a fixed term (caucion)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			parsedCurrency, err := domain.ParseCurrency(currency)
			if err != nil {
				return err
			}

			svc, err := restoredSession(cmd.Context(), app, profile)
			if err != nil {
				return err
			}

			raw, err := app.broker(svc, profile.APIKey).PlaceRepoOrder(cmd.Context(), parsedCurrency, amount, term, rate)
			if err != nil {
				return withLoginHint(err, profile.ID)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Repo order placed: %s %s at %s%% for %d days\n",
				strconv.FormatFloat(amount, 'f', -1, 64), parsedCurrency.Wire(),
				strconv.FormatFloat(rate, 'f', -1, 64), term)
			if len(raw) > 0 {
				return writeJSON(cmd.OutOrStdout(), raw)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().StringVar(&currency, "currency", "ARS", "Currency to lend")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount to lend")
	cmd.Flags().IntVar(&term, "term", 1, "Term in days")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Annualized rate, in percent")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")

	return cmd
}

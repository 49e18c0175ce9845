package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	portfolioadapter "github.com/nacho-herrera/go-cocos/internal/adapters/render/portfolio"
	"github.com/nacho-herrera/go-cocos/internal/domain"
)

func newPortfolioCmd(app *app) *cobra.Command {
	var (
		profileID string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Show holdings and cash balances",
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

			var raw json.RawMessage
			err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching portfolio...", func(ctx context.Context) error {
				var fetchErr error
				raw, fetchErr = broker.Portfolio(ctx)
				return fetchErr
			})
			if err != nil {
				return withLoginHint(err, profile.ID)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), raw)
			}

			session, _ := svc.CurrentSession()
			summary, err := parsePortfolioSummary(raw, session)
			if err != nil {
				return err
			}

			rendered, err := app.renderPortfolio(summary, portfolioadapter.RenderOptions{BarWidth: 16})
			if err != nil {
				return fmt.Errorf("render portfolio: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw API payload")

	cmd.AddCommand(
		newPortfolioFundsCmd(app),
		newPortfolioPerformanceCmd(app),
	)

	return cmd
}

func newPortfolioFundsCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "funds",
		Short: "Show buying power per settlement date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			svc, err := restoredSession(cmd.Context(), app, profile)
			if err != nil {
				return err
			}

			raw, err := app.broker(svc, profile.APIKey).FundsAvailable(cmd.Context())
			if err != nil {
				return withLoginHint(err, profile.ID)
			}

			return writeJSON(cmd.OutOrStdout(), raw)
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newPortfolioPerformanceCmd(app *app) *cobra.Command {
	var (
		profileID string
		timeframe string
		dateFrom  string
		dateTo    string
	)

	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Show portfolio performance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd.Context(), app, profileID)
			if err != nil {
				return err
			}

			parsed, err := domain.ParsePerformanceTimeframe(timeframe)
			if err != nil {
				return err
			}

			svc, err := restoredSession(cmd.Context(), app, profile)
			if err != nil {
				return err
			}

			raw, err := app.broker(svc, profile.APIKey).PortfolioPerformance(cmd.Context(), parsed, dateFrom, dateTo)
			if err != nil {
				return withLoginHint(err, profile.ID)
			}

			return writeJSON(cmd.OutOrStdout(), raw)
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().StringVar(&timeframe, "timeframe", "daily", "daily, historical or range")
	cmd.Flags().StringVar(&dateFrom, "from", "", "Start date (YYYY-MM-DD) for range")
	cmd.Flags().StringVar(&dateTo, "to", "", "End date (YYYY-MM-DD) for range")

	return cmd
}

// Tolerant projection of the wallet payload; absent fields render as zero.
type portfolioPayload struct {
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
	Cash        []struct {
		Settlement string  `json:"settlement"`
		Currency   string  `json:"currency"`
		Amount     float64 `json:"amount"`
	} `json:"cash"`
	Tickers []struct {
		Ticker           string  `json:"ticker"`
		Name             string  `json:"name"`
		Quantity         float64 `json:"quantity"`
		LastPrice        float64 `json:"last_price"`
		Amount           float64 `json:"amount"`
		VariationPercent float64 `json:"variation_percentage"`
	} `json:"tickers"`
}

func parsePortfolioSummary(raw json.RawMessage, session domain.Session) (portfolioadapter.Summary, error) {
	var payload portfolioPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return portfolioadapter.Summary{}, fmt.Errorf("decode portfolio: %w", err)
	}

	summary := portfolioadapter.Summary{
		AccountID:  session.AccountID,
		Email:      session.Email,
		TotalValue: payload.TotalAmount,
		Currency:   payload.Currency,
	}

	for _, cash := range payload.Cash {
		summary.Cash = append(summary.Cash, portfolioadapter.CashBalance{
			Settlement: cash.Settlement,
			Currency:   cash.Currency,
			Amount:     cash.Amount,
		})
	}

	for _, holding := range payload.Tickers {
		summary.Holdings = append(summary.Holdings, portfolioadapter.Holding{
			Ticker:     holding.Ticker,
			Name:       holding.Name,
			Quantity:   holding.Quantity,
			LastPrice:  holding.LastPrice,
			Value:      holding.Amount,
			PnLPercent: holding.VariationPercent,
		})
	}

	return summary, nil
}

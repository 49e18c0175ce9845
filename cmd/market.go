package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/nacho-herrera/go-cocos/internal/application"
	"github.com/nacho-herrera/go-cocos/internal/domain"
)

func newMarketCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Quotes, instrument lists and market data",
	}

	cmd.AddCommand(
		newMarketSearchCmd(app),
		newMarketTickerCmd(app),
		newMarketListCmd(app),
		newMarketHistoryCmd(app),
		newMarketMEPCmd(app),
		newMarketStatusCmd(app),
		newMarketRulesCmd(app),
		newMarketTypesCmd(app),
		newMarketFavoritesCmd(app),
		newMarketRecommendedCmd(app),
		newMarketNewsCmd(app),
	)

	return cmd
}

// brokerCall runs one broker operation and prints the raw payload. Every
// market subcommand is a thin wrapper around this.
func brokerCall(app *app, cmd *cobra.Command, profileID string, call func(broker *application.BrokerService) (json.RawMessage, error)) error {
	profile, err := resolveProfile(cmd.Context(), app, profileID)
	if err != nil {
		return err
	}

	svc, err := restoredSession(cmd.Context(), app, profile)
	if err != nil {
		return err
	}

	raw, err := call(app.broker(svc, profile.APIKey))
	if err != nil {
		return withLoginHint(err, profile.ID)
	}

	return writeJSON(cmd.OutOrStdout(), raw)
}

func newMarketSearchCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search instruments by ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.SearchTicker(cmd.Context(), args[0])
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newMarketTickerCmd(app *app) *cobra.Command {
	var (
		profileID string
		segment   string
	)

	cmd := &cobra.Command{
		Use:   "ticker <ticker>",
		Short: "Show every tradable combination of a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedSegment, err := domain.ParseSegment(segment)
			if err != nil {
				return err
			}

			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.InstrumentSnapshot(cmd.Context(), args[0], parsedSegment)
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().StringVar(&segment, "segment", "C", "Market segment (C, FCI, O, U)")

	return cmd
}

func newMarketListCmd(app *app) *cobra.Command {
	var (
		profileID      string
		instrumentType string
		subType        string
		settlement     string
		currency       string
		segment        string
		page           int
		size           int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List instruments by type and subtype",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := parseInstrumentFilter(instrumentType, subType, settlement, currency, segment)
			if err != nil {
				return err
			}

			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				if page > 0 {
					return broker.InstrumentListSnapshotPage(cmd.Context(), filter, page, size)
				}
				return broker.InstrumentListSnapshot(cmd.Context(), filter)
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().StringVar(&instrumentType, "type", "", "Instrument type, e.g. ACCIONES")
	cmd.Flags().StringVar(&subType, "subtype", "", "Instrument subtype, e.g. LIDERES")
	cmd.Flags().StringVar(&settlement, "settlement", "48hs", "Settlement date (CI, 24hs, 48hs)")
	cmd.Flags().StringVar(&currency, "currency", "ARS", "Currency")
	cmd.Flags().StringVar(&segment, "segment", "C", "Market segment")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (0 disables pagination)")
	cmd.Flags().IntVar(&size, "size", 20, "Page size")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("subtype")

	return cmd
}

func parseInstrumentFilter(instrumentType, subType, settlement, currency, segment string) (application.InstrumentFilter, error) {
	parsedType, err := domain.ParseInstrumentType(instrumentType)
	if err != nil {
		return application.InstrumentFilter{}, err
	}
	parsedSubType, err := domain.ParseInstrumentSubType(subType)
	if err != nil {
		return application.InstrumentFilter{}, err
	}
	parsedSettlement, err := domain.ParseSettlement(settlement)
	if err != nil {
		return application.InstrumentFilter{}, err
	}
	parsedCurrency, err := domain.ParseCurrency(currency)
	if err != nil {
		return application.InstrumentFilter{}, err
	}
	parsedSegment, err := domain.ParseSegment(segment)
	if err != nil {
		return application.InstrumentFilter{}, err
	}

	return application.InstrumentFilter{
		Type:       parsedType,
		SubType:    parsedSubType,
		Settlement: parsedSettlement,
		Currency:   parsedCurrency,
		Segment:    parsedSegment,
	}, nil
}

func newMarketHistoryCmd(app *app) *cobra.Command {
	var (
		profileID string
		dateFrom  string
	)

	cmd := &cobra.Command{
		Use:   "history <long-ticker>",
		Short: "Daily price history for an instrument",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.DailyHistory(cmd.Context(), args[0], dateFrom)
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().StringVar(&dateFrom, "from", "", "Start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func newMarketMEPCmd(app *app) *cobra.Command {
	var (
		profileID string
		open      bool
	)

	cmd := &cobra.Command{
		Use:   "mep",
		Short: "Dollar MEP prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				if open {
					return broker.OpenDolarMEP(cmd.Context())
				}
				return broker.DolarMEP(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")
	cmd.Flags().BoolVar(&open, "open", false, "Use the open MEP quote")

	return cmd
}

func newMarketStatusCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Whether the market is open",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.MarketStatus(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newMarketRulesCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Trading rules per instrument",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.InstrumentRules(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newMarketTypesCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "Valid instrument type and subtype combinations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.InstrumentTypesAndSubtypes(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newMarketFavoritesCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Your favorite tickers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.FavoriteTickers(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newMarketRecommendedCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "recommended",
		Short: "Tickers featured on the home screen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.RecommendedTickers(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

func newMarketNewsCmd(app *app) *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Market news feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return brokerCall(app, cmd, profileID, func(broker *application.BrokerService) (json.RawMessage, error) {
				return broker.News(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile to use")

	return cmd
}

package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cocos",
		Short:         "Cocos Capital CLI: trade and track your portfolio from the terminal",
		Long:          "cocos talks to the Cocos Capital brokerage API: log in (with second-factor support), check your portfolio, place and cancel orders, and pull quotes and market data.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newProfileCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newPortfolioCmd(app),
		newOrderCmd(app),
		newMarketCmd(app),
		newTransferCmd(app),
	)

	return rootCmd
}

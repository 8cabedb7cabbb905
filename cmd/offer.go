package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/internal/observability"
	"github.com/jobswipe/jobswipe-cli/internal/offer"
	"github.com/jobswipe/jobswipe-cli/internal/store"
)

// newOfferCmd creates the `offer` command: scrape the job offer on a page
// and persist it to the local store.
func newOfferCmd() *cobra.Command {
	var noSave bool

	offerCmd := &cobra.Command{
		Use:   "offer <url>",
		Short: "Scrapes the job offer from a page and stores it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			session, err := openSession(ctx, cfg, args[0], logger)
			if err != nil {
				return err
			}
			defer session.Close()

			scraped, err := offer.NewScraper(logger).Scrape(ctx, session)
			if err != nil {
				return err
			}

			if !noSave {
				st, err := store.Open(ctx, cfg.Store.Path, logger)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.SaveOffer(ctx, scraped); err != nil {
					return err
				}
				logger.Info("Job offer stored",
					zap.String("title", scraped.Title),
					zap.String("path", cfg.Store.Path))
			}

			return printJSON(cmd.OutOrStdout(), scraped)
		},
	}

	offerCmd.Flags().BoolVar(&noSave, "no-save", false, "print the offer without persisting it")

	return offerCmd
}

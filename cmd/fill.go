package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/internal/observability"
)

// newFillCmd creates the `fill` command: deterministic autofill of a page
// from the stored or supplied user profile. No AI involved.
func newFillCmd() *cobra.Command {
	var profilePath string

	fillCmd := &cobra.Command{
		Use:   "fill <url>",
		Short: "Fills a job-application form from the user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			profile, err := loadProfile(ctx, cfg, profilePath, logger)
			if err != nil {
				return err
			}

			session, err := openSession(ctx, cfg, args[0], logger)
			if err != nil {
				return err
			}
			defer session.Close()

			_, _, autofiller := newFillStack(cfg, logger)
			count, err := autofiller.Fill(ctx, session, profile)
			if err != nil {
				return err
			}

			logger.Info("Autofill complete",
				zap.String("url", args[0]),
				zap.Int("fields_filled", count))
			return printJSON(cmd.OutOrStdout(), map[string]int{"count": count})
		},
	}

	fillCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "path to a JSON user profile (defaults to the local store)")

	return fillCmd
}

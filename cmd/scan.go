package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/internal/observability"
	"github.com/jobswipe/jobswipe-cli/internal/scan"
)

// newScanCmd creates the `scan` command: reconnaissance without writes.
func newScanCmd() *cobra.Command {
	var fieldsOnly bool

	scanCmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Scans a page for fillable form controls and prints them as JSON",
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

			controls, err := newScanner(cfg, logger).Scan(ctx, session)
			if err != nil {
				return err
			}
			logger.Info("Form scan complete",
				zap.String("url", args[0]),
				zap.Int("controls", len(controls)))

			if fieldsOnly {
				return printJSON(cmd.OutOrStdout(), scan.DetectedTypes(controls))
			}
			return printJSON(cmd.OutOrStdout(), controls)
		},
	}

	scanCmd.Flags().BoolVar(&fieldsOnly, "fields", false, "print only the deduplicated semantic field types")

	return scanCmd
}

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/internal/observability"
)

// newPlanCmd creates the `plan` command: scan the page, ask the AI planner
// for a fill plan, and print it. With --apply the plan is executed too.
func newPlanCmd() *cobra.Command {
	var (
		profilePath string
		apply       bool
	)

	planCmd := &cobra.Command{
		Use:   "plan <url>",
		Short: "Builds an AI fill plan for a page, optionally executing it",
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

			aiPlanner, err := newPlanner(cfg, logger)
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

			plan, err := aiPlanner.BuildPlan(ctx, profile, controls)
			if err != nil {
				return err
			}

			if !apply {
				return printJSON(cmd.OutOrStdout(), plan)
			}

			result := newExecutor(cfg, logger).Execute(ctx, session, plan, profile)
			logger.Info("Plan applied",
				zap.String("url", args[0]),
				zap.Int("steps", len(plan.Steps)),
				zap.Int("succeeded", result.SuccessCount))
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	planCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "path to a JSON user profile (defaults to the local store)")
	planCmd.Flags().BoolVar(&apply, "apply", false, "execute the generated plan against the page")

	return planCmd
}

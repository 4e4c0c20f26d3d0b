package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/logger"
)

var mutualCmd = &cobra.Command{
	Use:   "mutual <profile-id> <other-profile-id>",
	Short: "Score a pair of profiles in both directions",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		a := newApplication(ctx, false, false)
		defer a.Close()

		res, err := a.orchestrator.MutualScore(ctx, args[0], args[1])
		if err != nil {
			a.fail("computing mutual score", err)
		}

		a.logger.Debug("mutual score computed",
			append(logger.PairFields(args[0], args[1]), zap.Int("mutual_score", res.MutualScore))...,
		)

		if err := printJSON(res); err != nil {
			a.fail("printing mutual score", err)
		}
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar <profile-id>",
	Short: "Rank profiles by embedding similarity",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := newApplication(ctx, false, false)
		defer a.Close()

		top, _ := cmd.Flags().GetInt("top")
		similar, err := a.orchestrator.Similar(ctx, args[0], top)
		if err != nil {
			a.fail("ranking similar profiles", err)
		}

		if err := printJSON(similar); err != nil {
			a.fail("printing similar profiles", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mutualCmd)
	rootCmd.AddCommand(similarCmd)

	similarCmd.Flags().IntP("top", "n", 5, "number of profiles to return")
}

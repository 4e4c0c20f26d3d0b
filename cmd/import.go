package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import profiles from a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		embed, _ := cmd.Flags().GetBool("embed")
		a := newApplication(ctx, embed, embed)
		defer a.Close()

		profiles, err := importer.ReadFile(args[0])
		if err != nil {
			a.fail("reading profiles", err)
		}
		a.logger.Info("profiles read", zap.String("file", args[0]), zap.Int("count", len(profiles)))

		if embed {
			if a.embedder == nil {
				a.logger.Fatal("embedding requested but the ai provider has no embedder",
					zap.String("provider", a.config.AI.Provider),
					zap.String("hint", "enable ai and use the gemini or openai provider"),
				)
			}
			count, err := importer.Embed(ctx, a.embedder, profiles, a.config.Matching.Workers, a.logger)
			if err != nil {
				a.fail("embedding profiles", err)
			}
			a.logger.Info("profiles embedded", zap.Int("count", count))
		}

		if err := a.store.SaveAll(ctx, profiles); err != nil {
			a.fail("saving profiles", err)
		}

		ids := make([]string, 0, len(profiles))
		for _, p := range profiles {
			ids = append(ids, p.ID)
		}
		if err := printJSON(map[string]any{"imported": len(profiles), "ids": ids}); err != nil {
			a.fail("printing result", err)
		}
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <profile-id>",
	Short: "Delete a profile and the connection records it owns",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		a := newApplication(ctx, false, false)
		defer a.Close()

		if err := a.store.Delete(ctx, args[0]); err != nil {
			a.fail("deleting profile", err)
		}
		a.logger.Info("profile deleted", zap.String("profile_id", args[0]))
	},
}

func init() {
	rootCmd.AddCommand(importCmd, deleteCmd)

	importCmd.Flags().Bool("embed", false, "generate embeddings with the configured ai provider")
}

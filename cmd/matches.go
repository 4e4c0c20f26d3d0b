package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/filtering"
	"github.com/spigell/collab-matcher/internal/matching"
)

const (
	PromptConnect          = "Send a connection request"
	PromptExclude          = "Exclude from future matches"
	PromptReportByIndustry = "Report by industry"
	PromptMatchesToFile    = "Dump matches to file"
	PromptQuit             = "quit"
	PromptBack             = "back"
)

var errExit = errors.New("exit requested")

var matchesCmd = &cobra.Command{
	Use:   "matches <profile-id>",
	Short: "Find the best collaborators for a profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMatches(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchesCmd)

	matchesCmd.Flags().IntP("limit", "l", matching.DefaultLimit, "maximum number of matches")
	matchesCmd.Flags().Float64P("min-score", "m", matching.DefaultMinScore, "minimum score in [0,1]")
	matchesCmd.Flags().Bool("include-connected", false, "keep profiles already connected to the seed")
	matchesCmd.Flags().Bool("explain", false, "ask the ai provider for a short reason per match")
	matchesCmd.Flags().BoolP("interactive", "i", false, "pick matches to connect with or exclude")
	matchesCmd.Flags().StringP("strategy", "s", "", "ranking strategy: heuristic or vector")
	matchesCmd.Flags().StringP("exclude-file", "e", "", "file with profiles to exclude. Default is unset.")

	viper.BindPFlag("matching.limit", matchesCmd.Flags().Lookup("limit"))
	viper.BindPFlag("matching.min-score", matchesCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("matching.strategy", matchesCmd.Flags().Lookup("strategy"))
	viper.BindPFlag("matching.exclude-file", matchesCmd.Flags().Lookup("exclude-file"))
}

func runMatches(cmd *cobra.Command, seedID string) {
	ctx := context.Background()

	explain, _ := cmd.Flags().GetBool("explain")
	a := newApplication(ctx, explain, false)
	defer a.Close()

	includeConnected, _ := cmd.Flags().GetBool("include-connected")
	opts := matching.Options{
		Limit:            a.config.Matching.Limit,
		MinScore:         a.config.Matching.MinScore,
		ExcludeConnected: a.config.Matching.ExcludeConnected && !includeConnected,
		Explain:          explain,
	}

	a.logger.Info("starting the search",
		zap.String("profile_id", seedID),
		zap.String("strategy", a.orchestrator.Strategy().Name()),
	)

	matches, err := a.orchestrator.FindMatches(ctx, seedID, opts)
	if err != nil {
		a.fail("finding matches", err)
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		if err := printJSON(summarize(matches)); err != nil {
			a.fail("printing matches", err)
		}
		return
	}

	if len(matches) == 0 {
		a.logger.Info("exiting", zap.String("reason", "no matches found"))
		return
	}

	if err := interact(ctx, a, seedID, matches); err != nil && !errors.Is(err, errExit) {
		a.fail("exiting", err)
	}
}

func summarize(matches []matching.Match) []matching.Summary {
	out := make([]matching.Summary, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Summarize())
	}
	return out
}

func interact(ctx context.Context, a *application, seedID string, matches []matching.Match) error {
	for len(matches) > 0 {
		items := append(matchItems(matches), PromptReportByIndustry, PromptMatchesToFile, PromptQuit)

		matchPrompt := promptui.Select{
			Label: "Choose a match and press ENTER",
			Items: items,
			Size:  10,
		}

		picked, selected, err := matchPrompt.Run()
		if err != nil {
			return err
		}

		idx, ok := selectedMatch(matches, picked)
		if ok {
			handled, err := actOnMatch(ctx, a, seedID, matches[idx])
			if err != nil {
				return err
			}
			if handled {
				matches = append(matches[:idx], matches[idx+1:]...)
			}
			continue
		}

		switch selected {
		case PromptQuit:
			return errExit
		case PromptReportByIndustry:
			if err := printJSON(matching.ReportByIndustry(matches)); err != nil {
				return err
			}
			continue
		case PromptMatchesToFile:
			filename, err := matching.DumpToTmpFile(summarize(matches))
			if err != nil {
				return fmt.Errorf("dump matches to file: %w", err)
			}
			a.logger.Info("dumping matches to file", zap.String("filename", filename))
			continue
		default:
			return fmt.Errorf("unknown menu item %q", selected)
		}
	}

	a.logger.Info("exiting", zap.String("reason", "no matches left"))
	return nil
}

// actOnMatch reports whether the match was consumed and should leave the list.
func actOnMatch(ctx context.Context, a *application, seedID string, m matching.Match) (bool, error) {
	actions := []string{PromptConnect}
	if a.config.Matching.ExcludeFile != "" {
		actions = append(actions, PromptExclude)
	}
	actions = append(actions, PromptBack)

	actionPrompt := promptui.Select{
		Label: fmt.Sprintf("%s (%s)", m.Profile.Name, strings.Join(m.Reasons, "; ")),
		Items: actions,
	}

	_, action, err := actionPrompt.Run()
	if err != nil {
		return false, err
	}

	switch action {
	case PromptConnect:
		rec, err := a.connections.Send(ctx, seedID, m.Profile.ID)
		if err != nil {
			a.logger.Warn("connection request failed", zap.Error(err))
			return false, nil
		}
		a.logger.Info("connection request sent",
			zap.String("peer_id", rec.PeerID),
			zap.String("status", string(rec.Status)),
		)
		return true, nil
	case PromptExclude:
		path := a.config.Matching.ExcludeFile
		excluded, err := filtering.LoadExcludedProfiles(path)
		if err != nil {
			return false, err
		}
		excluded.Append(&filtering.ExcludedProfile{
			OwnerID:    seedID,
			ProfileID:  m.Profile.ID,
			Name:       m.Profile.Name,
			Reason:     "excluded interactively",
			ExcludedAt: time.Now().UTC(),
		})
		if err := excluded.ToFile(path); err != nil {
			return false, err
		}
		a.logger.Info("appended to exclude file", zap.String("filename", path), zap.String("peer_id", m.Profile.ID))
		return true, nil
	default:
		return false, nil
	}
}

// matchItems renders one menu line per match, in match order.
func matchItems(matches []matching.Match) []string {
	items := make([]string, 0, len(matches)+3)
	for _, m := range matches {
		items = append(items, fmt.Sprintf("%s %s / %s / %s / %d%%",
			m.Profile.ID, m.Profile.Name, m.Profile.Role, m.Profile.Industry, matching.Percent(m.Score),
		))
	}
	return items
}

// selectedMatch maps a menu index to a match. Menu entries past the matches are commands.
func selectedMatch(matches []matching.Match, picked int) (int, bool) {
	if picked < 0 || picked >= len(matches) {
		return -1, false
	}
	return picked, true
}

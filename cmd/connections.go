package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/profile"
)

var connectCmd = &cobra.Command{
	Use:   "connect <from-profile-id> <to-profile-id>",
	Short: "Send a connection request",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		a := newApplication(ctx, false, false)
		defer a.Close()

		rec, err := a.connections.Send(ctx, args[0], args[1])
		if err != nil {
			a.fail("sending connection request", err)
		}
		printRecord(a, rec)
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept <profile-id> <requester-profile-id>",
	Short: "Accept a pending connection request",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		a := newApplication(ctx, false, false)
		defer a.Close()

		rec, err := a.connections.Accept(ctx, args[0], args[1])
		if err != nil {
			a.fail("accepting connection", err)
		}
		printRecord(a, rec)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <profile-id> <requester-profile-id>",
	Short: "Reject a pending connection request",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		a := newApplication(ctx, false, false)
		defer a.Close()

		rec, err := a.connections.Reject(ctx, args[0], args[1])
		if err != nil {
			a.fail("rejecting connection", err)
		}
		printRecord(a, rec)
	},
}

var connectionsCmd = &cobra.Command{
	Use:   "connections <profile-id>",
	Short: "List the connections of a profile",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		a := newApplication(ctx, false, false)
		defer a.Close()

		entries, err := a.connections.List(ctx, args[0])
		if err != nil {
			a.fail("listing connections", err)
		}

		a.logger.Info("getting connections", zap.Int("count", len(entries)))
		if err := printJSON(entries); err != nil {
			a.fail("printing connections", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(connectCmd, acceptCmd, rejectCmd, connectionsCmd)
}

func printRecord(a *application, rec profile.ConnectionRecord) {
	if err := printJSON(rec); err != nil {
		a.fail("printing connection", err)
	}
}

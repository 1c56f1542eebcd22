package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

var inspectLimit int

var inspectCmd = &cobra.Command{
	Use:   "inspect [community]",
	Short: "summarize stored communities, or one community in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, backend, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer backend.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			ids, err := store.Communities(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "backend: %s\n", store.Backend())
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		}

		c, err := store.Snapshot(ctx, args[0])
		if err != nil {
			return err
		}
		writeCommunity(out, c, time.Now(), inspectLimit)
		return nil
	},
}

func init() {
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", crew.DefaultLeaderboardLimit, "leaderboard entries to show, 0 for all")
	rootCmd.AddCommand(inspectCmd)
}

func writeCommunity(out io.Writer, c *crew.Community, now time.Time, limit int) {
	fmt.Fprintf(out, "community %s\n", c.ID)

	if c.Config == nil {
		fmt.Fprintln(out, "config: not configured")
	} else {
		fmt.Fprintf(out, "config: role=%s operations=%s leaderboard=%s status=%s welcome=%s\n",
			c.Config.OperationRoleID, c.Config.OperationChannelID, c.Config.LeaderboardChannelID,
			orNone(c.Config.StatusChannelID), orNone(c.Config.WelcomeChannelID))
	}

	if op := c.Operation; op != nil {
		capacity := "unlimited"
		if op.Capacity != nil {
			capacity = fmt.Sprint(*op.Capacity)
		}
		fmt.Fprintf(out, "operation %s: %s %s %s, %d/%s attending\n",
			op.ID, op.Airport, op.Date, op.Time, len(op.Attendees), capacity)
		for _, a := range op.Roster() {
			fmt.Fprintf(out, "  %s %s\n", a.MemberID, a.DisplayName)
		}
	} else {
		fmt.Fprintln(out, "operation: none")
	}

	board := crew.Status(c, now, nil)
	fmt.Fprintf(out, "on duty: %d, on break: %d\n", len(board.OnDuty), len(board.OnBreak))
	for _, s := range append(board.OnDuty, board.OnBreak...) {
		fmt.Fprintf(out, "  %s %s at %s for %s\n", s.MemberID, s.DisplayName, s.Airport, utils.FormatMinutes(s.ElapsedMinutes))
	}

	fmt.Fprintln(out, "leaderboard:")
	for _, e := range crew.Leaderboard(c, limit, nil) {
		fmt.Fprintf(out, "  %d. %s %s %s\n", e.Rank, e.MemberID, e.DisplayName, utils.FormatMinutes(e.Minutes))
	}
}

func orNone(id string) string {
	if id == "" {
		return "none"
	}
	return id
}

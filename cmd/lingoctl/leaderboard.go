package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vytor/lingoflash/internal/models"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the leaderboard for a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, _ := cmd.Flags().GetString("window")

		return run(cmd, func(ctx context.Context, a *app) error {
			entries, err := a.leaderboard.Leaderboard(ctx, window)
			if err != nil {
				return err
			}
			return printLeaderboard(cmd.OutOrStdout(), entries)
		})
	},
}

func init() {
	leaderboardCmd.Flags().String("window", "all_time", "daily, weekly or all_time")
}

func printLeaderboard(w io.Writer, entries []models.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no learners on this board yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tLEARNER\tXP\tLESSONS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", e.Rank, e.DisplayName, e.PeriodXP, e.PeriodLessons)
	}
	return tw.Flush()
}

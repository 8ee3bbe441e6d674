package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a learner's progress",
	Long:  "Deletes every progress entry of the learner and restores default skills and counters.",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")

		return run(cmd, func(ctx context.Context, a *app) error {
			p, err := a.profiles.ResetProgress(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset progress of %s (%s)\n", p.ID, p.DisplayName)
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().String("user", "", "Learner id")
	_ = resetCmd.MarkFlagRequired("user")
}

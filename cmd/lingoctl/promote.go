package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Grant or revoke admin rights",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		revoke, _ := cmd.Flags().GetBool("revoke")

		return run(cmd, func(ctx context.Context, a *app) error {
			p, err := a.profiles.SetAdmin(ctx, userID, !revoke)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", p.ID, p.IsAdmin)
			return nil
		})
	},
}

func init() {
	promoteCmd.Flags().String("user", "", "Learner id")
	promoteCmd.Flags().Bool("revoke", false, "Remove admin rights instead of granting them")
	_ = promoteCmd.MarkFlagRequired("user")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var approveCmd = &cobra.Command{
	Use:   "approve <line>",
	Short: "Approve the pending job a rendered line refers to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		approved, err := a.approveUseCase().ApproveLine(cmd.Context(), a.branch, args[0])
		if err != nil {
			return err
		}

		if !approved {
			fmt.Println("no change (line is not a pending approval)")
			return nil
		}
		fmt.Println("approved")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)
}

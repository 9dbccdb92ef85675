package cli

import (
	"errors"
	"fmt"

	"github.com/davarch/ci-status/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch the latest pipeline state for the current branch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		workflows, err := a.pullUseCase().PullOnce(cmd.Context(), a.branch)
		if err != nil {
			// Neither is CI activity worth failing over.
			if errors.Is(err, domain.ErrProjectNotFound) || errors.Is(err, domain.ErrNoPipeline) {
				fmt.Printf("no CI activity for %s\n", a.branch)
				return nil
			}
			return err
		}

		if len(workflows) == 0 {
			fmt.Println("no CI configuration in this repository")
			return nil
		}

		a.log.Info("pulled",
			zap.String("branch", a.branch),
			zap.Int("workflows", len(workflows)),
			zap.String("cache", a.cachePath),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}

package cli

import (
	"errors"
	"fmt"

	"github.com/davarch/ci-status/internal/domain"
	"github.com/davarch/ci-status/internal/infrastructure/browser_exec"
	"github.com/spf13/cobra"
)

var (
	openPrint    bool
	openWorkflow string
	openJob      string
)

var openCmd = &cobra.Command{
	Use:   "open [line]",
	Short: "Resolve a rendered line to its browse URL and open it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		snap, err := a.cache.Read(cmd.Context())
		if err != nil {
			if !errors.Is(err, domain.ErrCacheCorrupt) {
				return err
			}
			snap = domain.Snapshot{}
		}
		workflows := snap[a.branch]

		var target domain.Target
		switch {
		case openWorkflow != "":
			target, err = a.res.ResolveRef(workflows, domain.EntryRef{WorkflowID: openWorkflow, JobName: openJob})
		case len(args) == 1:
			target, err = a.res.ResolveLine(workflows, args[0])
		default:
			return errors.New("a display line or --workflow is required")
		}
		if err != nil {
			return err
		}

		if target.Kind != domain.TargetBrowse {
			return errors.New("this entry is a pending approval; use `ci-status approve`")
		}

		if openPrint {
			fmt.Println(target.URL)
			return nil
		}
		return browser_exec.New().Open(cmd.Context(), target.URL)
	},
}

func init() {
	openCmd.Flags().BoolVar(&openPrint, "print", false, "print the URL instead of opening a browser")
	openCmd.Flags().StringVar(&openWorkflow, "workflow", "", "resolve by workflow id instead of line text")
	openCmd.Flags().StringVar(&openJob, "job", "", "job name within --workflow")

	rootCmd.AddCommand(openCmd)
}

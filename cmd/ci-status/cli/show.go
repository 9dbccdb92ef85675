package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/davarch/ci-status/internal/application"
	"github.com/davarch/ci-status/internal/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	showJSON   bool
	showFollow bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Render the cached snapshot for the current branch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		render := func(ctx context.Context) error {
			snap, err := a.cache.Read(ctx)
			if err != nil {
				if errors.Is(err, domain.ErrCacheCorrupt) {
					a.log.Warn("cache unreadable, treating as empty", zap.Error(err))
					snap = domain.Snapshot{}
				} else {
					return err
				}
			}

			workflows := snap[a.branch]
			if len(workflows) == 0 {
				fmt.Printf("no cached CI state for %s (run `ci-status pull`)\n", a.branch)
				return nil
			}

			if showJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(workflows)
			}

			for _, line := range application.Render(workflows) {
				fmt.Println(line.Text)
			}
			return nil
		}

		if err := render(cmd.Context()); err != nil {
			return err
		}
		if !showFollow {
			return nil
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return followCache(ctx, a.log, a.cachePath, func() {
			if err := render(ctx); err != nil {
				a.log.Warn("render failed", zap.Error(err))
			}
		})
	},
}

// followCache re-renders whenever the durable cache file changes, so a
// pull from another terminal shows up here. Events are debounced: the
// atomic temp-write-then-rename produces several per update.
func followCache(ctx context.Context, log *zap.Logger, path string, render func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	base := filepath.Base(path)
	var timer *time.Timer
	schedule := func() {
		if timer == nil {
			timer = time.AfterFunc(300*time.Millisecond, render)
			return
		}
		timer.Stop()
		timer.Reset(300 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the raw cache entry as JSON")
	showCmd.Flags().BoolVar(&showFollow, "follow", false, "keep running and re-render on cache changes")

	rootCmd.AddCommand(showCmd)
}

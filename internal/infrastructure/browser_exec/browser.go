package browser_exec

import (
	"context"
	"os/exec"
	"runtime"
)

type Browser struct {
	soft bool
}

func New() *Browser     { return &Browser{soft: false} }
func NewSoft() *Browser { return &Browser{soft: true} }

// Open hands the URL to the platform opener without waiting for it.
func (b *Browser) Open(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		if b.soft {
			return nil
		}
		return err
	}
	return nil
}

package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/sozercan/screenai/internal/config"
)

var ErrCaptureFailed = errors.New("screen capture failed")

// Screen writes screenshots by running an external capture utility with the
// target path as its last argument.
type Screen struct {
	command string
	args    []string
}

func NewScreen(cfg config.CaptureConfig) (*Screen, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("capture command cannot be empty")
	}
	return &Screen{
		command: cfg.Command,
		args:    cfg.Args,
	}, nil
}

// Capture writes a screenshot to path and returns path.
func (s *Screen) Capture(ctx context.Context, path string) (string, error) {
	args := append(append([]string{}, s.args...), path)
	cmd := exec.CommandContext(ctx, s.command, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Debug("Running capture command", "command", s.command, "args", args)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %v: %s", ErrCaptureFailed, err, msg)
		}
		return "", fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	return path, nil
}

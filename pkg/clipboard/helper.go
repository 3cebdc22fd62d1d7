// Package clipboard runs the external helper that reads an image from the
// system clipboard and encodes it.
package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-udon/pkg/models"
)

// DefaultMaxBufferMB bounds the helper output.
const DefaultMaxBufferMB = 128

// Helper invokes the clipboard helper binary.
type Helper struct {
	Path        string
	MaxBufferMB int
	Logger      logrus.FieldLogger
}

// Options limit the size of the captured image. Zero means unbounded.
type Options struct {
	Width  int
	Height int
}

// Result is a captured clipboard image.
type Result struct {
	Base64 string
	// FilePath is the path hint the helper printed on stderr.
	FilePath string
	Format   models.Format
}

// Decode returns the raw image bytes.
func (r *Result) Decode() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(r.Base64))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return data, nil
}

// ExitError is a failure reported by the helper through its exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	switch e.Code {
	case 1:
		return "Invalid image format"
	case 2:
		return "Clipboard has no image"
	case 3:
		return "Fail to create image"
	default:
		return "Clipboard error: " + strconv.Itoa(e.Code)
	}
}

// ErrNoImage matches an ExitError for an empty clipboard.
var ErrNoImage = &ExitError{Code: 2}

func (e *ExitError) Is(target error) bool {
	t, ok := target.(*ExitError)
	return ok && t.Code == e.Code
}

// ErrOutputTooLarge is returned when the helper writes more than the
// configured buffer.
var ErrOutputTooLarge = errors.New("clipboard helper output exceeds buffer limit")

func (h *Helper) command(ctx context.Context, args ...string) (*exec.Cmd, error) {
	if h.Path == "" {
		return nil, fmt.Errorf("clipboard helper path is not configured")
	}
	path, err := exec.LookPath(h.Path)
	if err != nil {
		return nil, fmt.Errorf("clipboard helper %s not found: %w", h.Path, err)
	}
	return exec.CommandContext(ctx, path, args...), nil
}

// Args returns the helper arguments for a capture.
func Args(format models.Format, opts Options) []string {
	args := []string{string(format), "--stderr-path"}
	if opts.Width >= 1 {
		args = append(args, "-w", strconv.Itoa(opts.Width))
	}
	if opts.Height >= 1 {
		args = append(args, "-h", strconv.Itoa(opts.Height))
	}
	return args
}

// Capture reads the clipboard image encoded as format.
func (h *Helper) Capture(ctx context.Context, format models.Format, opts Options) (*Result, error) {
	args := Args(format, opts)
	cmd, err := h.command(ctx, args...)
	if err != nil {
		return nil, err
	}

	limit := h.MaxBufferMB
	if limit <= 0 {
		limit = DefaultMaxBufferMB
	}
	stdout := &limitedBuffer{max: limit * 1024 * 1024}
	stderr := &limitedBuffer{max: limit * 1024 * 1024}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{"path": cmd.Path, "args": args}).Debug("Running clipboard helper")
	}

	err = cmd.Run()
	if stdout.overflow || stderr.overflow {
		return nil, ErrOutputTooLarge
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return nil, &ExitError{Code: exitErr.ExitCode()}
		}
		return nil, fmt.Errorf("run clipboard helper: %w", err)
	}

	return &Result{
		Base64:   stdout.String(),
		FilePath: strings.TrimSpace(stderr.String()),
		Format:   format,
	}, nil
}

// Version returns the version printed by "<helper> --version", which has
// the form "<name> <version>".
func (h *Helper) Version(ctx context.Context) (string, error) {
	cmd, err := h.command(ctx, "--version")
	if err != nil {
		return "", err
	}
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("get clipboard helper version: %w", err)
	}
	return parseVersion(string(out))
}

func parseVersion(out string) (string, error) {
	fields := strings.Split(strings.TrimSpace(out), " ")
	if len(fields) != 2 {
		return "", fmt.Errorf("unknown version format: %q", out)
	}
	return strings.TrimSpace(fields[1]), nil
}

type limitedBuffer struct {
	bytes.Buffer
	max      int
	overflow bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.Len()+len(p) > b.max {
		b.overflow = true
		return 0, ErrOutputTooLarge
	}
	return b.Buffer.Write(p)
}

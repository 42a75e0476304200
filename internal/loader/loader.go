// Package loader extracts plain text from uploaded document files.
package loader

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/paperscope/ragserver/internal/domain"
)

// CommandRunner executes an external command and returns its stdout.
// Injected so tests can fake pdftotext.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// Run executes the command and returns stdout.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	return out, nil
}

// Loader reads document files into plain text, keyed by file extension.
type Loader struct {
	runner CommandRunner
}

// New creates a loader with the default exec-based runner.
func New() *Loader {
	return &Loader{runner: ExecRunner{}}
}

// NewWithRunner creates a loader with an injected command runner.
func NewWithRunner(r CommandRunner) *Loader {
	return &Loader{runner: r}
}

// Supports reports whether the loader can handle the file's extension.
func (l *Loader) Supports(path string) bool {
	switch normalizeExt(path) {
	case ".txt", ".md", ".text", ".pdf":
		return true
	}
	return false
}

// Load extracts the text content of the file at path.
// Returns domain.ErrUnsupportedFormat for unknown extensions.
func (l *Loader) Load(ctx context.Context, path string) (string, error) {
	switch normalizeExt(path) {
	case ".txt", ".md", ".text":
		return l.loadPlainText(path)
	case ".pdf":
		return l.loadPDF(ctx, path)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func (l *Loader) loadPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

// loadPDF shells out to pdftotext, writing extracted text to stdout.
func (l *Loader) loadPDF(ctx context.Context, path string) (string, error) {
	out, err := l.runner.Run(ctx, "pdftotext", path, "-")
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return string(out), nil
}

func normalizeExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

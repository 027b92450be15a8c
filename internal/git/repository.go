package git

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=repository.go -destination=repository_mock.gen.go -package=git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrEmptyMessage is returned when asked to commit without a headline.
var ErrEmptyMessage = errors.New("empty commit message")

// Repository exposes git operations required by the application.
type Repository interface {
	StagedDiff(ctx context.Context) (string, error)
	Commit(ctx context.Context, message string) error
	WriteHook(path, message string) error
}

// CLIRepository executes git commands through the local CLI.
type CLIRepository struct {
	Exec func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCLIRepository returns a concrete Repository backed by the system git binary.
func NewCLIRepository() *CLIRepository {
	return &CLIRepository{
		Exec: exec.CommandContext,
	}
}

func (r *CLIRepository) run(ctx context.Context, args ...string) (string, error) {
	cmd := r.Exec(ctx, "git", args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w\n%s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// StagedDiff returns the staged changes without context lines, with rename detection.
func (r *CLIRepository) StagedDiff(ctx context.Context) (string, error) {
	return r.run(ctx, "diff", "--staged", "-U0", "-M")
}

// Commit records the staged changes with message, read from stdin so the body
// keeps its paragraphs.
func (r *CLIRepository) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	cmd := r.Exec(ctx, "git", "commit", "-F", "-")
	cmd.Stdin = strings.NewReader(message + "\n")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

// WriteHook writes message into a commit-msg or prepare-commit-msg file.
func (r *CLIRepository) WriteHook(path, message string) error {
	if err := os.WriteFile(path, []byte(message+"\n"), 0o644); err != nil {
		return fmt.Errorf("write hook message: %w", err)
	}
	return nil
}

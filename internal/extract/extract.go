package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 2 * time.Minute

var (
	DefaultCommand  = []string{"intltool-update", "--pot"}
	DefaultTemplate = "po/*.pot"

	ErrToolNotFound     = errors.New("extraction tool not found")
	ErrTimeout          = errors.New("extraction timed out")
	ErrTemplateNotFound = errors.New("extraction produced no template")
)

// Extractor regenerates the source template of a working directory.
type Extractor interface {
	// Extract runs the tool inside dir and returns the path of the template it wrote.
	Extract(ctx context.Context, dir string) (string, error)
}

// CommandExtractor runs an external program, intltool-update by default.
type CommandExtractor struct {
	// Command is the program and its arguments.
	Command []string
	// WorkDir is the directory, relative to the component directory, the program runs in.
	WorkDir string
	// Template is a glob, relative to the component directory, matching the written template.
	Template string
	Timeout  time.Duration
}

var _ Extractor = (*CommandExtractor)(nil)

func NewCommandExtractor(command []string, timeout time.Duration) *CommandExtractor {
	if len(command) == 0 {
		command = DefaultCommand
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	workDir := ""
	if filepath.Base(command[0]) == "intltool-update" {
		workDir = "po"
	}

	return &CommandExtractor{
		Command:  command,
		WorkDir:  workDir,
		Template: DefaultTemplate,
		Timeout:  timeout,
	}
}

func (e *CommandExtractor) Extract(ctx context.Context, dir string) (string, error) {
	toolPath, err := exec.LookPath(e.Command[0])
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, e.Command[0])
	}

	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, toolPath, e.Command[1:]...)
	cmd.Dir = filepath.Join(dir, e.WorkDir)
	cmd.WaitDelay = time.Second
	var stderrBuf strings.Builder
	cmd.Stderr = &stderrBuf

	started := time.Now()
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, e.Timeout)
		}
		if stderrBuf.Len() > 0 {
			logrus.Warnf("%s: %s", e.Command[0], strings.TrimSpace(stderrBuf.String()))
		}
		return "", fmt.Errorf("%s failed: %w", e.Command[0], err)
	}
	logrus.Debugf("%s finished in %s", e.Command[0], time.Since(started))

	return newestMatch(dir, e.Template)
}

func newestMatch(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", err
	}

	var newest string
	var newestTime time.Time
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = match
			newestTime = info.ModTime()
		}
	}

	if newest == "" {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, pattern)
	}

	return newest, nil
}

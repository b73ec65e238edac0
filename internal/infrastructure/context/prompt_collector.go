package contextcollector

import (
	"context"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/ports"
)

// maxPathWidth is the longest working directory shown verbatim in the status line.
const maxPathWidth = 42

// PromptCollector gathers what the status line above the prompt shows.
type PromptCollector struct {
	now    func() time.Time
	getwd  func() (string, error)
	getenv func(string) string
}

func NewPromptCollector() *PromptCollector {
	return &PromptCollector{
		now:    time.Now,
		getwd:  os.Getwd,
		getenv: os.Getenv,
	}
}

// Collect implements ports.PromptCollector. Probes that fail are left empty.
func (c *PromptCollector) Collect(ctx context.Context) domain.PromptInfo {
	wd, _ := c.getwd()
	host, _ := os.Hostname()

	return domain.PromptInfo{
		Time:       c.now(),
		User:       currentUser(c.getenv),
		Host:       host,
		Path:       ShortenPath(wd),
		Git:        collectGitInfo(ctx, wd),
		VirtualEnv: VirtualEnvName(c.getenv("VIRTUAL_ENV")),
	}
}

// ShortenPath keeps short paths and reduces long ones to ../basename.
func ShortenPath(path string) string {
	if len(path) <= maxPathWidth {
		return path
	}
	return "../" + filepath.Base(path)
}

// VirtualEnvName returns the last element of $VIRTUAL_ENV.
func VirtualEnvName(venv string) string {
	venv = strings.TrimRight(venv, "/")
	if venv == "" {
		return ""
	}
	return filepath.Base(venv)
}

func currentUser(getenv func(string) string) string {
	if name := getenv("USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

func collectGitInfo(ctx context.Context, dir string) *domain.GitStatus {
	if dir == "" {
		return nil
	}
	if _, err := exec.LookPath("git"); err != nil {
		return nil
	}
	branch := strings.TrimSpace(runCmd(ctx, dir, "git", "rev-parse", "--abbrev-ref", "HEAD"))
	if branch == "" {
		return nil
	}
	return &domain.GitStatus{
		Branch:       branch,
		ChangedFiles: CountChanges(runCmd(ctx, dir, "git", "status", "--porcelain")),
	}
}

// CountChanges counts entries in `git status --porcelain` output.
func CountChanges(porcelain string) int {
	changed := 0
	for _, line := range strings.Split(porcelain, "\n") {
		if strings.TrimSpace(line) != "" {
			changed++
		}
	}
	return changed
}

func runCmd(ctx context.Context, dir string, name string, args ...string) string {
	cctx, cancel := context.WithTimeout(ctx, domain.DefaultCommandTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return string(out)
}

var _ ports.PromptCollector = (*PromptCollector)(nil)

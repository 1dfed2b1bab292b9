package gather

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/contextprime/contextprime/internal/source"
)

// gitRunner executes git in a fixed directory with a per-command
// timeout. It reports success, never errors: gathering treats a
// missing repository the same as an empty one.
type gitRunner struct {
	dir     string
	timeout time.Duration
}

// run executes git with the given arguments and returns trimmed
// stdout. ok is false when git is absent, exits non-zero, or times
// out.
func (g gitRunner) run(ctx context.Context, args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(out)), true
}

// gatherHistory summarizes recent repository activity: the commit log,
// the current branch and status, and a diffstat of recent changes. A
// directory without a repository yields no sources.
func (g *Gatherer) gatherHistory(ctx context.Context, root string) []source.Source {
	git := gitRunner{dir: root, timeout: g.opts.CommandTimeout}
	var sources []source.Source

	if log, ok := git.run(ctx, "log", "--oneline", fmt.Sprintf("-%d", g.opts.CommitCount), "--no-decorate"); ok && log != "" {
		sources = append(sources, source.New(source.CategoryHistory, "recent_commits", log))
	}

	branch, _ := git.run(ctx, "branch", "--show-current")
	status, _ := git.run(ctx, "status", "--short")
	if branch != "" || status != "" {
		if branch == "" {
			branch = "unknown"
		}
		if status == "" {
			status = "clean"
		}
		content := fmt.Sprintf("Branch: %s\n\nStatus:\n%s", branch, status)
		sources = append(sources, source.New(source.CategoryHistory, "current_state", content))
	}

	if diff, ok := git.run(ctx, "diff", "--stat", "HEAD~5..HEAD"); ok && diff != "" {
		sources = append(sources, source.New(source.CategoryHistory, "recent_changes", diff))
	}

	return sources
}

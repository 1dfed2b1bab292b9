// Package gather collects knowledge sources from a project: memory
// files, codebase structure, task-relevant code files, git history,
// and priority notes. It over-gathers on purpose — the scoring stage
// handles filtering — and never calls the model.
//
// Every sub-gatherer is independent and fails soft: an unreadable file
// or a missing git repository produces fewer sources, never an error.
// The only hard failure is a project root that does not exist.
package gather

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/contextprime/contextprime/internal/source"
)

// --- Options ---

// Options bounds the gatherer's scanning work.
type Options struct {
	// MaxCodeFiles caps how many keyword-matched code files are read.
	MaxCodeFiles int
	// MaxDepth bounds the structure walk; the code-file walk goes twice
	// as deep since relevant code often sits below the manifest level.
	MaxDepth int
	// CommitCount is how many recent commits the history gatherer lists.
	CommitCount int
	// MemoryPaths overrides the default memory locations when non-empty.
	MemoryPaths []string
	// ExternalPaths names extra local files or directories to include.
	// Empty means the external gatherer is disabled.
	ExternalPaths []string
	// MemoryDB is the global observations database path. The project's
	// own .contextprime/memory.db takes precedence when present.
	MemoryDB string
	// ObservationLimit caps how many database observations are read.
	ObservationLimit int
	// CommandTimeout bounds each git invocation.
	CommandTimeout time.Duration
}

// DefaultOptions returns the gathering bounds used when no config
// overrides them.
func DefaultOptions() Options {
	return Options{
		MaxCodeFiles:     50,
		MaxDepth:         4,
		CommitCount:      20,
		ObservationLimit: 20,
		CommandTimeout:   10 * time.Second,
	}
}

// --- Gatherer ---

// Gatherer scans a project directory for priming sources.
type Gatherer struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Gatherer. A nil logger falls back to slog.Default().
func New(opts Options, logger *slog.Logger) *Gatherer {
	if opts.MaxCodeFiles <= 0 {
		opts.MaxCodeFiles = DefaultOptions().MaxCodeFiles
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultOptions().MaxDepth
	}
	if opts.CommitCount <= 0 {
		opts.CommitCount = DefaultOptions().CommitCount
	}
	if opts.ObservationLimit <= 0 {
		opts.ObservationLimit = DefaultOptions().ObservationLimit
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultOptions().CommandTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gatherer{opts: opts, logger: logger}
}

// Gather scans the task's project and returns every discovered source
// in a stable order. Source.Order records the discovery position; the
// scorer uses it to break ties deterministically.
func (g *Gatherer) Gather(ctx context.Context, task source.Task) ([]source.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkProjectRoot(task.ProjectRoot); err != nil {
		return nil, err
	}

	var sources []source.Source
	sources = append(sources, g.gatherMemory(task.ProjectRoot)...)
	sources = append(sources, g.gatherStructure(task.ProjectRoot)...)
	sources = append(sources, g.gatherCodeFiles(ctx, task.ProjectRoot, task.Description)...)
	sources = append(sources, g.gatherHistory(ctx, task.ProjectRoot)...)
	sources = append(sources, g.gatherPriority(task.ProjectRoot)...)
	sources = append(sources, g.gatherExternal(task.ProjectRoot)...)

	for i := range sources {
		sources[i].Order = i
	}

	g.logger.Debug("gather complete",
		"sources", len(sources),
		"tokens", TotalTokens(sources),
		"project", task.ProjectRoot,
	)
	return sources, nil
}

// Briefing gathers only memory and structure sources. Session-start
// priming has no task description to score against, so it works from
// this smaller, always-relevant set.
func (g *Gatherer) Briefing(ctx context.Context, projectRoot string) ([]source.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkProjectRoot(projectRoot); err != nil {
		return nil, err
	}

	var sources []source.Source
	sources = append(sources, g.gatherMemory(projectRoot)...)
	sources = append(sources, g.gatherStructure(projectRoot)...)
	for i := range sources {
		sources[i].Order = i
	}
	return sources, nil
}

// TotalTokens sums the token estimates of a source slice.
func TotalTokens(sources []source.Source) int {
	total := 0
	for _, s := range sources {
		total += s.TokenEstimate
	}
	return total
}

// --- Shared helpers ---

func checkProjectRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("gather: project root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("gather: project root %s is not a directory", root)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// truncate caps content at max bytes, cutting at a line boundary when
// one falls in the second half.
func truncate(content string, max int) string {
	if len(content) <= max {
		return content
	}
	cut := content[:max]
	if nl := strings.LastIndex(cut, "\n"); nl > max/2 {
		cut = cut[:nl]
	}
	return cut + "\n\n... [truncated]"
}

// displayName renders a path relative to the project root when it sits
// inside it, absolute otherwise.
func displayName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

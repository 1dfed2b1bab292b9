package gather

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/contextprime/contextprime/internal/source"
)

// skipDirs are directories never worth scanning: VCS internals,
// dependency trees, and build output.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, ".venv": true, "venv": true,
	"__pycache__": true, ".next": true, ".nuxt": true, "dist": true,
	"build": true, ".cache": true, ".tox": true, ".mypy_cache": true,
	".pytest_cache": true, "target": true, "vendor": true,
	".terraform": true, "coverage": true, ".nyc_output": true,
	"egg-info": true,
}

// keyManifests are the project files that orient a reader fastest.
// README.md and readme.md both appear; SameFile dedup handles
// case-insensitive filesystems.
var keyManifests = []string{
	"README.md", "readme.md",
	"package.json", "pyproject.toml", "Cargo.toml", "go.mod",
	"CLAUDE.md", ".claude/CLAUDE.md", "AGENTS.md",
	"Makefile", "docker-compose.yml",
}

// manifestByteCap truncates each manifest so a sprawling README cannot
// dominate the gathered set.
const manifestByteCap = 8000

// gatherStructure renders a bounded file listing plus the key project
// manifests.
func (g *Gatherer) gatherStructure(root string) []source.Source {
	var sources []source.Source

	var lines []string
	walkBounded(root, g.opts.MaxDepth, func(rel string, d fs.DirEntry) {
		lines = append(lines, "./"+rel)
	})
	if len(lines) > 0 {
		sources = append(sources, source.New(
			source.CategoryStructure,
			"directory_structure",
			strings.Join(lines, "\n"),
		))
	}

	var seen []os.FileInfo
	for _, name := range keyManifests {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		dup := false
		for _, prev := range seen {
			if os.SameFile(prev, info) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, info)

		data, err := os.ReadFile(path)
		if err != nil || strings.TrimSpace(string(data)) == "" {
			continue
		}
		sources = append(sources, source.New(
			source.CategoryStructure,
			filepath.ToSlash(name),
			truncate(string(data), manifestByteCap),
		))
	}
	return sources
}

// walkBounded visits regular files under root up to maxDepth path
// components, skipping well-known dependency and build directories.
// fn receives slash-separated paths relative to root, in the lexical
// order filepath.WalkDir guarantees. Unreadable entries are skipped.
func walkBounded(root string, maxDepth int, fn func(rel string, d fs.DirEntry)) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		depth := strings.Count(rel, string(os.PathSeparator)) + 1

		if d.IsDir() {
			if skipDirs[d.Name()] || depth >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if depth > maxDepth || !d.Type().IsRegular() {
			return nil
		}
		fn(filepath.ToSlash(rel), d)
		return nil
	})
}

package gather

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/contextprime/contextprime/internal/source"
)

// codeExtensions marks files worth reading as source code. Markdown is
// included — docs are often code-adjacent.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
	".go": true, ".rs": true, ".rb": true, ".java": true, ".kt": true,
	".swift": true, ".c": true, ".cpp": true, ".h": true, ".hpp": true,
	".cs": true, ".php": true, ".lua": true,
	".sh": true, ".bash": true, ".zsh": true,
	".sql": true, ".graphql": true, ".proto": true,
	".yaml": true, ".yml": true, ".toml": true, ".json": true,
	".css": true, ".scss": true, ".less": true, ".html": true,
	".svelte": true, ".vue": true,
	".tf": true, ".hcl": true,
	".md": true,
}

// skipFiles are generated lock files that match code extensions but
// carry no signal.
var skipFiles = map[string]bool{
	"package-lock.json": true, "yarn.lock": true, "pnpm-lock.yaml": true,
	"poetry.lock": true, "Pipfile.lock": true, "Gemfile.lock": true,
	"composer.lock": true, "Cargo.lock": true, "go.sum": true,
}

// maxFileSize skips binaries and huge generated files, roughly 25k
// tokens.
const maxFileSize = 100_000

// Relevance hints. A keyword in the filename is a far stronger signal
// than one in the content; files touched in recent commits get a
// small nudge.
const (
	contentHintWeight  = 1.0
	filenameHintWeight = 3.0
	recencyHintWeight  = 0.5
)

// scanWorkers bounds the concurrent content scan.
const scanWorkers = 8

// gatherCodeFiles reads the source files most likely relevant to the
// task. Keywords extracted from the description drive three hint
// passes: content matches, filename matches, and git recency. The
// top-ranked files are read whole; scoring does the nuanced ranking
// later.
func (g *Gatherer) gatherCodeFiles(ctx context.Context, root, task string) []source.Source {
	keywords := extractKeywords(task)
	if len(keywords) == 0 {
		return nil
	}

	candidates := g.codeCandidates(root)

	hints := make(map[string]float64)
	firstSeen := make(map[string]int, len(candidates))
	for i, rel := range candidates {
		firstSeen[rel] = i
	}

	// Concurrent content scan. Each worker reads one file, counts
	// keyword hits in content and filename, and merges its hint under
	// the mutex. The later stable sort makes the result independent of
	// completion order.
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, scanWorkers)
	)
	for _, rel := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(rel string) {
			defer wg.Done()
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			hint := scanFile(filepath.Join(root, filepath.FromSlash(rel)), rel, keywords)
			if hint == 0 {
				return
			}
			mu.Lock()
			hints[rel] += hint
			mu.Unlock()
		}(rel)
	}
	wg.Wait()

	// Git recency. Files in recent commits, the worktree, or the index
	// each get a nudge; the three diffs overlap on purpose so a file
	// being actively worked on accumulates more.
	git := gitRunner{dir: root, timeout: g.opts.CommandTimeout}
	next := len(candidates)
	for _, args := range [][]string{
		{"diff", "--name-only", "HEAD~10..HEAD"},
		{"diff", "--name-only", "HEAD"},
		{"diff", "--name-only", "--cached"},
	} {
		out, ok := git.run(ctx, args...)
		if !ok || out == "" {
			continue
		}
		for _, line := range strings.Split(out, "\n") {
			rel := strings.TrimSpace(line)
			if rel == "" {
				continue
			}
			if _, seen := firstSeen[rel]; !seen {
				firstSeen[rel] = next
				next++
			}
			hints[rel] += recencyHintWeight
		}
	}

	// Rank by hint, strongest first; equal hints keep discovery order.
	ranked := make([]string, 0, len(hints))
	for rel := range hints {
		ranked = append(ranked, rel)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if hints[ranked[i]] != hints[ranked[j]] {
			return hints[ranked[i]] > hints[ranked[j]]
		}
		return firstSeen[ranked[i]] < firstSeen[ranked[j]]
	})
	if len(ranked) > g.opts.MaxCodeFiles {
		ranked = ranked[:g.opts.MaxCodeFiles]
	}

	// Read the winners. Git-reported paths were never validated, so
	// every entry is checked here.
	var sources []source.Source
	for _, rel := range ranked {
		full := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if info.Size() == 0 || info.Size() > maxFileSize {
			continue
		}
		name := filepath.Base(full)
		if skipFiles[name] || !codeExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil || strings.TrimSpace(string(data)) == "" {
			continue
		}
		sources = append(sources, source.New(source.CategoryCodeFile, filepath.ToSlash(rel), string(data)))
	}
	return sources
}

// codeCandidates walks the project (twice the structure depth) and
// returns relative paths of scannable code files.
func (g *Gatherer) codeCandidates(root string) []string {
	var candidates []string
	walkBounded(root, g.opts.MaxDepth*2, func(rel string, d fs.DirEntry) {
		name := d.Name()
		if skipFiles[name] || !codeExtensions[strings.ToLower(filepath.Ext(name))] {
			return
		}
		info, err := d.Info()
		if err != nil || info.Size() == 0 || info.Size() > maxFileSize {
			return
		}
		candidates = append(candidates, rel)
	})
	return candidates
}

// scanFile counts keyword hits for one file: contentHintWeight per
// keyword found in the content, filenameHintWeight per keyword found
// in the base name. Matching is case-insensitive.
func scanFile(full, rel string, keywords []string) float64 {
	data, err := os.ReadFile(full)
	if err != nil {
		return 0
	}
	content := strings.ToLower(string(data))
	base := strings.ToLower(path.Base(rel))

	hint := 0.0
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			hint += contentHintWeight
		}
		if strings.Contains(base, kw) {
			hint += filenameHintWeight
		}
	}
	return hint
}

package gather

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/contextprime/contextprime/internal/source"
)

// gatherMemory reads accumulated memory: MEMORY.md, markdown files
// under the project and global memory directories, and recent
// observations from the memory database when one exists.
func (g *Gatherer) gatherMemory(root string) []source.Source {
	paths := g.opts.MemoryPaths
	if len(paths) == 0 {
		paths = defaultMemoryPaths(root)
	}

	var sources []source.Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.IsDir() {
			sources = append(sources, readMemoryDir(p)...)
			continue
		}
		if strings.EqualFold(filepath.Ext(p), ".md") {
			if src, ok := readMemoryFile(p, filepath.Base(p)); ok {
				sources = append(sources, src)
			}
		}
	}

	if src, ok := g.gatherObservations(root); ok {
		sources = append(sources, src)
	}
	return sources
}

// defaultMemoryPaths lists the memory locations scanned when none are
// configured: the project's own files first, then global memory, then
// the per-project directory keyed by the encoded absolute path.
func defaultMemoryPaths(root string) []string {
	paths := []string{
		filepath.Join(root, "MEMORY.md"),
		filepath.Join(root, ".claude", "memory"),
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return paths
	}
	if global := filepath.Join(home, ".claude", "memory"); isDir(global) {
		paths = append(paths, global)
	}
	if projDir := projectMemoryDir(home, root); projDir != "" {
		paths = append(paths, projDir)
	}
	return paths
}

// projectMemoryDir locates ~/.claude/projects/<encoded>/memory, where
// <encoded> is the project's absolute path with separators replaced by
// dashes. The first directory whose name matches in either direction
// wins; no further candidates are considered.
func projectMemoryDir(home, root string) string {
	projectsDir := filepath.Join(home, ".claude", "projects")
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return ""
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	encoded := strings.ReplaceAll(abs, string(os.PathSeparator), "-")

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.Contains(name, encoded) || strings.Contains(encoded, name) {
			memDir := filepath.Join(projectsDir, name, "memory")
			if isDir(memDir) {
				return memDir
			}
			return ""
		}
	}
	return ""
}

// readMemoryDir collects every markdown file under dir, named relative
// to it.
func readMemoryDir(dir string) []source.Source {
	var sources []source.Source
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		if src, ok := readMemoryFile(path, filepath.ToSlash(rel)); ok {
			sources = append(sources, src)
		}
		return nil
	})
	return sources
}

func readMemoryFile(path, name string) (source.Source, bool) {
	data, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return source.Source{}, false
	}
	return source.New(source.CategoryMemory, name, string(data)), true
}

package gather

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/contextprime/contextprime/internal/source"
)

// gatherExternal reads explicitly configured extra material: local
// files, or directories whose markdown files are taken wholesale.
// Paths may be absolute or project-relative. Nothing is fetched over
// the network; the default build performs no network I/O during
// gathering.
func (g *Gatherer) gatherExternal(root string) []source.Source {
	var sources []source.Source
	for _, p := range g.opts.ExternalPaths {
		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, full)
		}
		info, err := os.Stat(full)
		if err != nil {
			continue
		}

		if info.IsDir() {
			_ = filepath.WalkDir(full, func(path string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return nil
				}
				if !strings.EqualFold(filepath.Ext(path), ".md") {
					return nil
				}
				if src, ok := readExternalFile(root, path); ok {
					sources = append(sources, src)
				}
				return nil
			})
			continue
		}

		if src, ok := readExternalFile(root, full); ok {
			sources = append(sources, src)
		}
	}
	return sources
}

func readExternalFile(root, path string) (source.Source, bool) {
	data, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return source.Source{}, false
	}
	return source.New(
		source.CategoryExternal,
		displayName(root, path),
		truncate(string(data), manifestByteCap),
	), true
}

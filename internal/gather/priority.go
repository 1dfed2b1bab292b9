package gather

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/contextprime/contextprime/internal/source"
)

// priorityFiles carry the project's stated intent: what matters now
// and what is planned. They feed the reserved budget pool, so the
// byte cap keeps them lean.
var priorityFiles = []string{
	"TODO.md", "PRIORITIES.md", "ROADMAP.md",
	".github/ISSUE_TEMPLATE.md",
	"CONTRIBUTING.md",
}

// priorityByteCap truncates each priority file.
const priorityByteCap = 4000

// gatherPriority reads the project's priority and convention notes.
func (g *Gatherer) gatherPriority(root string) []source.Source {
	var sources []source.Source
	for _, name := range priorityFiles {
		path := filepath.Join(root, name)
		if !isFile(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil || strings.TrimSpace(string(data)) == "" {
			continue
		}
		sources = append(sources, source.New(
			source.CategoryPriority,
			filepath.ToSlash(name),
			truncate(string(data), priorityByteCap),
		))
	}
	return sources
}

package gather

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/contextprime/contextprime/internal/source"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// observationPreviewLen caps each observation row in the rendered
// memory source.
const observationPreviewLen = 300

// gatherObservations reads recent observations from the memory
// database, preferring the project-local one. The database is opened
// read-only; priming never writes memory. A missing or unreadable
// database yields no source.
func (g *Gatherer) gatherObservations(root string) (source.Source, bool) {
	path := filepath.Join(root, ".contextprime", "memory.db")
	if !isFile(path) {
		path = g.opts.MemoryDB
		if path == "" || !isFile(path) {
			return source.Source{}, false
		}
	}

	content, err := readObservations(path, g.opts.ObservationLimit)
	if err != nil {
		g.logger.Debug("memory db unreadable", "path", path, "error", err)
		return source.Source{}, false
	}
	if content == "" {
		return source.Source{}, false
	}
	return source.New(source.CategoryMemory, "memory.db", content), true
}

// readObservations renders the newest non-deleted observations as a
// markdown list, one bullet per row.
func readObservations(path string, limit int) (string, error) {
	db, err := openDB("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("open memory db: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT type, title, content
		FROM observations
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return "", fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var typ, title, content string
		if err := rows.Scan(&typ, &title, &content); err != nil {
			return "", fmt.Errorf("scan observation: %w", err)
		}
		fmt.Fprintf(&b, "- [%s] **%s**: %s\n", typ, title, clip(content, observationPreviewLen))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// clip shortens a string to max length with ellipsis.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

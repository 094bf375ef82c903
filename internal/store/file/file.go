// Package file implements the store interfaces on top of flat JSON array
// files, one per entity type. It is the fallback backend used when MongoDB
// is unreachable: every call re-reads and rewrites the whole file, there is
// no indexing beyond linear scans, and a missing or corrupt file degrades to
// an empty collection rather than an error. A process-level mutex serialises
// access within one server; cross-process writers are out of scope.
package file

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/IT22091352/wasana-products/internal/utils"
)

const (
	inquiriesFile = "inquiries.json"
	usersFile     = "users.json"
)

// freshRecordID rolls record IDs until taken reports a free one. The
// timestamp prefix makes collisions within one millisecond the only risk, so
// a couple of retries is plenty; after that the last candidate is used as-is.
func freshRecordID(taken func(string) bool) string {
	id := utils.NewRecordID()
	for i := 0; i < 5 && taken(id); i++ {
		id = utils.NewRecordID()
	}
	return id
}

// ensureDataFile creates dir and seeds path with an empty JSON array if the
// file does not exist yet.
func ensureDataFile(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return "", fmt.Errorf("failed to initialise data file %s: %w", path, err)
		}
	}
	return path, nil
}

// readJSON loads the whole file into v. Read or parse failures reset v's
// target to remain at its zero value and are logged, not returned: the
// original system treated an unreadable collection as empty.
func readJSON(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("file store: failed to read %s, treating as empty: %v", path, err)
		}
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("file store: failed to parse %s, treating as empty: %v", path, err)
	}
}

// writeJSON rewrites the whole file with the indented JSON encoding of v.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Package history archives packing runs on disk so past layouts can be
// listed, reloaded, and pruned. Each run is one JSON file named after its
// timestamp and run id.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/piwi3910/StowPack/internal/model"
)

// Entry is one archived run.
type Entry struct {
	Version   string                `json:"version"`
	CreatedAt string                `json:"created_at"`
	Warehouse model.WarehouseConfig `json:"warehouse"`
	Tuning    model.Tuning          `json:"tuning"`
	Result    model.PackingResult   `json:"result"`
}

// DefaultDir returns the default directory for archived runs.
// This is located at ~/.stowpack/history.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stowpack", "history"), nil
}

// Save archives a run into dir and returns the written path. Parent
// directories are created as needed.
func Save(dir string, cfg model.WarehouseConfig, tuning model.Tuning, result model.PackingResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	entry := Entry{
		Version:   "1.0.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Warehouse: cfg,
		Tuning:    tuning,
		Result:    result,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", time.Now().UTC().Format("20060102T150405"), result.RunID)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run file: %w", err)
	}
	return path, nil
}

// Load reads one archived run.
func Load(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read run file: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse run file: %w", err)
	}
	if entry.Version == "" {
		return Entry{}, fmt.Errorf("invalid run file: missing version field")
	}
	return entry, nil
}

// List returns the archived run files in dir, newest first. A missing
// directory yields an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	// Timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// Prune deletes the oldest archived runs beyond keep. Returns the number of
// files removed.
func Prune(dir string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	paths, err := List(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range paths[min(keep, len(paths)):] {
		if err := os.Remove(p); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

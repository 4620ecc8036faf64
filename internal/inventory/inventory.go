// internal/inventory/inventory.go
package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"slate/internal/inspect"
)

// Inventory maps file basenames to their state at snapshot time. It
// represents the starting state of a file set and is read-only after
// construction.
type Inventory struct {
	dir   string
	files map[string]inspect.PathInfo
}

// Snapshot records the state of every regular file directly under dir.
func Snapshot(dir string) (*Inventory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading base directory: %w", err)
	}

	inv := &Inventory{
		dir:   dir,
		files: make(map[string]inspect.PathInfo, len(entries)),
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		inv.files[entry.Name()] = inspect.Inspect(filepath.Join(dir, entry.Name()))
	}

	return inv, nil
}

// Dir returns the directory the snapshot was taken of.
func (inv *Inventory) Dir() string {
	return inv.dir
}

// Get returns the snapshot for a basename.
func (inv *Inventory) Get(base string) (inspect.PathInfo, bool) {
	info, ok := inv.files[base]
	return info, ok
}

// Names returns all snapshotted basenames in sorted order.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.files))
	for name := range inv.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of snapshotted files.
func (inv *Inventory) Len() int {
	return len(inv.files)
}

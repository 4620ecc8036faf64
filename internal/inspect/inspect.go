// internal/inspect/inspect.go
package inspect

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PathInfo is a point-in-time snapshot of a path's filesystem state. The
// name fields are derived from the path string alone; the state fields fall
// back to their zero value when the underlying query fails.
type PathInfo struct {
	Path     string    `json:"path"`
	Base     string    `json:"base"`
	Ext      string    `json:"ext"`
	Stem     string    `json:"stem"`
	Exists   bool      `json:"exists"`
	Readable bool      `json:"readable"` // only meaningful when Exists is true
	ModTime  time.Time `json:"mod_time"`
	Size     int64     `json:"size"`
}

// Inspect snapshots the current state of path. It never returns an error:
// any filesystem fault downgrades the affected field to its zero value, so
// callers can treat the result as a total function over the filesystem.
func Inspect(path string) PathInfo {
	base := filepath.Base(path)
	ext := filepath.Ext(base)

	info := PathInfo{
		Path: path,
		Base: base,
		Ext:  ext,
		Stem: strings.TrimSuffix(base, ext),
	}

	fi, err := os.Stat(path)
	if err == nil {
		info.Exists = true
		info.Size = fi.Size()
		info.ModTime = fi.ModTime()
	}

	// Readability is probed independently of existence: a path can exist
	// but be unopenable, and that distinction must survive.
	if f, err := os.Open(path); err == nil {
		f.Close()
		info.Readable = true
	}

	return info
}

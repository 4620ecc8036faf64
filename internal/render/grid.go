// internal/render/grid.go
package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"slate/internal/engine"
)

// Grid formats a change history as a columns-wide grid, one section per
// non-empty bucket. The history is consumed read-only.
func Grid(h *engine.History, columns int) string {
	if columns < 1 {
		columns = 1
	}

	var buf strings.Builder
	for _, b := range engine.Buckets {
		paths := h.Paths(b)
		if len(paths) == 0 {
			continue
		}

		buf.WriteString(bucketColor(b).Sprintf("%s (%d)", b, len(paths)))
		buf.WriteByte('\n')

		width := maxWidth(paths)
		for i, p := range paths {
			fmt.Fprintf(&buf, "  %-*s", width, p)
			if (i+1)%columns == 0 {
				buf.WriteByte('\n')
			}
		}
		if len(paths)%columns != 0 {
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// Record formats a single diff record for terminal output.
func Record(rec engine.DiffRecord) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "%s  %s", changeColor(rec.Change).Sprint(rec.Change), rec.Path)
	if rec.Err != "" {
		fmt.Fprintf(&buf, "  error: %s", rec.Err)
	}
	if rec.Committed {
		fmt.Fprintf(&buf, "  %d -> %d bytes (%+d)", rec.SizeBefore, rec.SizeAfter, rec.SizeChange)
	}

	return buf.String()
}

func bucketColor(b engine.Bucket) *color.Color {
	switch b {
	case engine.BucketCreate:
		return color.New(color.FgGreen)
	case engine.BucketUpdate:
		return color.New(color.FgYellow)
	case engine.BucketDelete:
		return color.New(color.FgRed)
	case engine.BucketError:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func changeColor(k engine.ChangeKind) *color.Color {
	return bucketColor(engine.Bucket(k))
}

func maxWidth(paths []string) int {
	width := 0
	for _, p := range paths {
		if len(p) > width {
			width = len(p)
		}
	}
	return width
}

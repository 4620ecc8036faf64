package render

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"slate/internal/engine"
)

func init() {
	// Keep assertions on plain text.
	color.NoColor = true
}

func TestGrid(t *testing.T) {
	h := engine.NewHistory()
	h.Record(engine.BucketCreate, "a.html")
	h.Record(engine.BucketCreate, "b.html")
	h.Record(engine.BucketCreate, "c.html")
	h.Record(engine.BucketDelete, "old.html")

	out := Grid(h, 2)

	assert.Contains(t, out, "create (3)")
	assert.Contains(t, out, "delete (1)")
	assert.NotContains(t, out, "update")

	// Two columns: a and b share a row, c wraps.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	var createRow string
	for _, line := range lines {
		if strings.Contains(line, "a.html") {
			createRow = line
			break
		}
	}
	assert.Contains(t, createRow, "b.html")
	assert.NotContains(t, createRow, "c.html")
}

func TestGridEmptyHistory(t *testing.T) {
	assert.Empty(t, Grid(engine.NewHistory(), 3))
}

func TestGridClampsColumns(t *testing.T) {
	h := engine.NewHistory()
	h.Record(engine.BucketUpdate, "x")

	out := Grid(h, 0)
	assert.Contains(t, out, "update (1)")
	assert.Contains(t, out, "x")
}

func TestRecord(t *testing.T) {
	rec := engine.DiffRecord{
		Path:       "report.txt",
		Change:     engine.ChangeUpdate,
		Committed:  true,
		SizeBefore: 5,
		SizeAfter:  2,
		SizeChange: -3,
	}

	out := Record(rec)
	assert.Contains(t, out, "update")
	assert.Contains(t, out, "report.txt")
	assert.Contains(t, out, "5 -> 2 bytes (-3)")
}

func TestRecordWithError(t *testing.T) {
	rec := engine.DiffRecord{
		Path:   "report.txt",
		Change: engine.ChangeNone,
		Err:    engine.ErrUnreadable,
	}

	out := Record(rec)
	assert.Contains(t, out, "error: "+engine.ErrUnreadable)
}

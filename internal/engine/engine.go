// internal/engine/engine.go
package engine

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"slate/internal/compare"
	"slate/internal/inspect"
)

// ErrMisuse is the record error set when empty content targets a path that
// does not exist. ErrUnreadable is set when the current content cannot be
// read for comparison, which blocks the write outright.
const (
	ErrMisuse     = "empty content for a path that does not exist"
	ErrUnreadable = "content could not be read for comparison"
)

// Engine classifies pending single-file changes and applies them. Diff never
// mutates the filesystem; Commit performs at most one write or removal and
// records the outcome in the session history.
//
// An Engine instance is not safe for concurrent use. Confine each instance
// to a single logical writer, or wrap it in a mutex and accept that the
// single-slot diff cache serializes poorly across paths.
type Engine struct {
	comparator *compare.Comparator
	history    *History
	undo       *undoLog
	logger     *zap.Logger

	// Single-slot cache of the most recent diff, validated on reuse
	// against the candidate fingerprint and the file's stat pair.
	last     *DiffRecord
	lastHash string
	lastMod  time.Time
	lastSize int64
}

// New creates an Engine around the given comparator.
func New(comparator *compare.Comparator, logger *zap.Logger) (*Engine, error) {
	if comparator == nil {
		return nil, fmt.Errorf("comparator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	undo, err := newUndoLog()
	if err != nil {
		return nil, fmt.Errorf("creating undo log: %w", err)
	}

	return &Engine{
		comparator: comparator,
		history:    NewHistory(),
		undo:       undo,
		logger:     logger,
	}, nil
}

// History exposes the session change history for presentation consumers.
// The returned value is read-mostly; callers must not retain it past the
// engine's lifetime.
func (e *Engine) History() *History {
	return e.history
}

// Diff classifies the operation that applying content to path would perform.
// Empty content signals delete intent; empty content against a path that
// does not exist is rejected as misuse. Diff reads the filesystem but never
// writes to it.
func (e *Engine) Diff(path string, content []byte) DiffRecord {
	info := inspect.Inspect(path)

	rec := DiffRecord{
		Path:   path,
		Change: ChangeNone,
		Match:  MatchUnchecked,
		Exists: info.Exists,
	}
	if info.Exists {
		rec.SizeBefore = info.Size
	}

	switch {
	case len(content) == 0 && !info.Exists:
		rec.Err = ErrMisuse
	case len(content) == 0:
		rec.Change = ChangeDelete
	case !info.Exists:
		rec.Change = ChangeCreate
	default:
		switch e.comparator.Compare(content, path) {
		case compare.Match:
			rec.Match = MatchYes
		case compare.Mismatch:
			rec.Match = MatchNo
			rec.Change = ChangeUpdate
		case compare.Indeterminate:
			// The prior state cannot be verified, so no write may
			// happen; the diff degrades to an error-flagged no-op.
			rec.Match = MatchIndeterminate
			rec.Err = ErrUnreadable
		}
	}

	cached := rec
	e.last = &cached
	e.lastHash = compare.HashContent(content)
	e.lastMod = info.ModTime
	e.lastSize = info.Size

	e.logger.Debug("diff computed",
		zap.String("path", path),
		zap.String("change", string(rec.Change)),
		zap.String("match", string(rec.Match)))

	return rec
}

// Commit applies the pending change for path. The most recent diff is reused
// when it still describes the current file state; otherwise Commit
// recomputes it. A no-op diff is returned untouched without altering the
// history; a diff carrying an error is returned untouched and classified
// into the error bucket. On success the record gains the post-commit size
// and delta, the path is classified into its bucket, and the diff cache is
// cleared.
func (e *Engine) Commit(path string, content []byte) DiffRecord {
	rec := e.cachedDiff(path, content)
	if rec == nil {
		fresh := e.Diff(path, content)
		rec = &fresh
	}

	if rec.Err != "" {
		e.history.Record(BucketError, path)
		e.logger.Warn("commit refused",
			zap.String("path", path),
			zap.String("error", rec.Err))
		return *rec
	}
	if rec.Change == ChangeNone {
		return *rec
	}

	// Capture prior content for the undo log before mutating. Best
	// effort: an unreadable prior simply leaves no undo entry.
	var prior []byte
	if rec.Change != ChangeCreate {
		prior, _ = os.ReadFile(path)
	}

	switch rec.Change {
	case ChangeDelete:
		if err := os.Remove(path); err != nil {
			rec.Err = fmt.Sprintf("removing file: %v", err)
			e.logger.Error("delete failed", zap.String("path", path), zap.Error(err))
			return *rec
		}
	case ChangeCreate, ChangeUpdate:
		if err := os.WriteFile(path, content, 0644); err != nil {
			rec.Err = fmt.Sprintf("writing file: %v", err)
			e.logger.Error("write failed", zap.String("path", path), zap.Error(err))
			return *rec
		}
	}

	if rec.Change != ChangeCreate {
		e.undo.save(path, prior)
	}
	e.comparator.Invalidate(path)

	after := inspect.Inspect(path)
	if after.Exists {
		rec.SizeAfter = after.Size
	}
	rec.SizeChange = rec.SizeAfter - rec.SizeBefore
	rec.Committed = true

	e.history.Record(Bucket(rec.Change), path)
	e.clearCache()

	e.logger.Info("change committed",
		zap.String("path", path),
		zap.String("change", string(rec.Change)),
		zap.Int64("size_change", rec.SizeChange))

	return *rec
}

// Undo restores the content a path held before its most recent committed
// update or delete. The restore flows through Commit so the history stays
// consistent with what actually happened on disk.
func (e *Engine) Undo(path string) (DiffRecord, error) {
	content, ok := e.undo.restore(path)
	if !ok {
		return DiffRecord{}, fmt.Errorf("no undo entry for %s", path)
	}

	rec := e.Commit(path, content)
	if rec.Err != "" {
		return rec, fmt.Errorf("restoring %s: %s", path, rec.Err)
	}

	e.undo.drop(path)
	return rec, nil
}

// cachedDiff returns a copy of the last diff when it can still be trusted:
// same path, same candidate content, and the file untouched since the diff
// was taken. Anything else forces a recompute.
func (e *Engine) cachedDiff(path string, content []byte) *DiffRecord {
	if e.last == nil || e.last.Path != path {
		return nil
	}
	if compare.HashContent(content) != e.lastHash {
		return nil
	}

	info := inspect.Inspect(path)
	if info.Exists != e.last.Exists || !info.ModTime.Equal(e.lastMod) || info.Size != e.lastSize {
		e.logger.Debug("cached diff stale, recomputing", zap.String("path", path))
		return nil
	}

	rec := *e.last
	return &rec
}

func (e *Engine) clearCache() {
	e.last = nil
	e.lastHash = ""
	e.lastMod = time.Time{}
	e.lastSize = 0
}

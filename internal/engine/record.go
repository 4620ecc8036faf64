// internal/engine/record.go
package engine

// ChangeKind classifies the operation a diff would apply to a path.
type ChangeKind string

const (
	ChangeNone   ChangeKind = "none"
	ChangeCreate ChangeKind = "create"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// MatchState is the outcome of the content comparison behind a diff.
// MatchUnchecked covers diffs where no comparison applies (create, delete,
// misuse); MatchIndeterminate means the current content could not be read,
// which blocks any write.
type MatchState string

const (
	MatchUnchecked     MatchState = "unchecked"
	MatchYes           MatchState = "match"
	MatchNo            MatchState = "mismatch"
	MatchIndeterminate MatchState = "indeterminate"
)

// DiffRecord describes the pending operation for a path, and after a commit,
// its outcome. Exists and SizeBefore capture the state before the operation;
// SizeAfter and SizeChange are populated only once Committed is true.
// SizeChange is after minus before, so a grown file yields a positive delta.
type DiffRecord struct {
	Path       string     `json:"path"`
	Change     ChangeKind `json:"change"`
	Exists     bool       `json:"exists"`
	Match      MatchState `json:"match"`
	Err        string     `json:"error,omitempty"`
	SizeBefore int64      `json:"size_before"`
	SizeAfter  int64      `json:"size_after"`
	SizeChange int64      `json:"size_change"`
	Committed  bool       `json:"committed"`
}

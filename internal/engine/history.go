// internal/engine/history.go
package engine

// Bucket names a change-history classification. The three mutating kinds sit
// beside the error and none outcomes so a session's full commit activity can
// be rendered.
type Bucket string

const (
	BucketCreate Bucket = "create"
	BucketUpdate Bucket = "update"
	BucketDelete Bucket = "delete"
	BucketError  Bucket = "error"
	BucketNone   Bucket = "none"
)

// Buckets is the fixed presentation order.
var Buckets = []Bucket{BucketCreate, BucketUpdate, BucketDelete, BucketError, BucketNone}

// History classifies committed paths into buckets, insertion-ordered within
// each bucket. It is append-only for the lifetime of a session and never
// persisted.
type History struct {
	buckets map[Bucket][]string
	latest  map[string]Bucket
}

func NewHistory() *History {
	return &History{
		buckets: make(map[Bucket][]string),
		latest:  make(map[string]Bucket),
	}
}

// Record appends path to bucket b.
func (h *History) Record(b Bucket, path string) {
	h.buckets[b] = append(h.buckets[b], path)
	h.latest[path] = b
}

// Paths returns the paths recorded in bucket b in insertion order.
func (h *History) Paths(b Bucket) []string {
	paths := make([]string, len(h.buckets[b]))
	copy(paths, h.buckets[b])
	return paths
}

// Kind returns the most recent classification recorded for path.
func (h *History) Kind(path string) (Bucket, bool) {
	b, ok := h.latest[path]
	return b, ok
}

// Len reports the total number of recorded entries across all buckets.
func (h *History) Len() int {
	n := 0
	for _, paths := range h.buckets {
		n += len(paths)
	}
	return n
}

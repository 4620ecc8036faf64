// internal/compare/compare.go
package compare

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Result classifies a content comparison. Indeterminate means the current
// file content could not be read; callers must treat it as "cannot safely
// proceed", never as a match or mismatch.
type Result int

const (
	Indeterminate Result = iota
	Match
	Mismatch
)

func (r Result) String() string {
	switch r {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	default:
		return "indeterminate"
	}
}

// Fingerprint pairs a content hash with the stat fields that validate it.
// A stored fingerprint is trusted only while the file's (modtime, size)
// pair is unchanged.
type Fingerprint struct {
	Hash    string    `json:"hash"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

const fingerprintPrefix = "fp:"

const defaultCacheSize = 256

// Comparator answers byte-exact content equality questions against the
// filesystem, caching fingerprints in an LRU backed by an optional badger
// store so unchanged files are not re-read on every comparison.
type Comparator struct {
	db     *badger.DB
	cache  *lru.Cache[string, Fingerprint]
	logger *zap.Logger
}

// New creates a Comparator. db may be nil, in which case fingerprints live
// only in the in-memory cache.
func New(db *badger.DB, cacheSize int, logger *zap.Logger) (*Comparator, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, Fingerprint](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating fingerprint cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Comparator{
		db:     db,
		cache:  cache,
		logger: logger,
	}, nil
}

// HashContent returns the hex-encoded sha256 digest of content.
func HashContent(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Compare reports whether candidate is byte-identical to the current content
// of path. It never returns an error: an unreadable or vanished file yields
// Indeterminate.
func (c *Comparator) Compare(candidate []byte, path string) Result {
	current, ok := c.currentHash(path)
	if !ok {
		return Indeterminate
	}

	if HashContent(candidate) == current {
		return Match
	}
	return Mismatch
}

// Invalidate drops any cached fingerprint for path. Must be called after the
// file is mutated outside the comparator's view.
func (c *Comparator) Invalidate(path string) {
	c.cache.Remove(path)

	if c.db == nil {
		return
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(fingerprintPrefix + path))
	})
	if err != nil {
		c.logger.Warn("dropping persisted fingerprint",
			zap.String("path", path),
			zap.Error(err))
	}
}

// currentHash resolves the content hash of path, reusing a cached
// fingerprint while the file's (modtime, size) pair is unchanged.
func (c *Comparator) currentHash(path string) (string, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", false
	}

	if fp, ok := c.lookup(path); ok && fp.ModTime.Equal(fi.ModTime()) && fp.Size == fi.Size() {
		return fp.Hash, true
	}

	content, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("reading file for comparison",
			zap.String("path", path),
			zap.Error(err))
		return "", false
	}

	fp := Fingerprint{
		Hash:    HashContent(content),
		ModTime: fi.ModTime(),
		Size:    fi.Size(),
	}
	c.store(path, fp)

	return fp.Hash, true
}

func (c *Comparator) lookup(path string) (Fingerprint, bool) {
	if fp, ok := c.cache.Get(path); ok {
		return fp, true
	}

	if c.db == nil {
		return Fingerprint{}, false
	}

	var fp Fingerprint
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fingerprintPrefix + path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &fp)
		})
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			c.logger.Warn("loading persisted fingerprint",
				zap.String("path", path),
				zap.Error(err))
		}
		return Fingerprint{}, false
	}

	c.cache.Add(path, fp)
	return fp, true
}

func (c *Comparator) store(path string, fp Fingerprint) {
	c.cache.Add(path, fp)

	if c.db == nil {
		return
	}
	data, err := json.Marshal(fp)
	if err != nil {
		c.logger.Warn("marshaling fingerprint", zap.String("path", path), zap.Error(err))
		return
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(fingerprintPrefix+path), data)
	})
	if err != nil {
		c.logger.Warn("persisting fingerprint",
			zap.String("path", path),
			zap.Error(err))
	}
}

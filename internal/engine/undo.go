// internal/engine/undo.go
package engine

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// undoLog keeps the zstd-compressed prior content of committed updates and
// deletes. Entries live only for the lifetime of the engine instance.
type undoLog struct {
	enc     *zstd.Encoder
	dec     *zstd.Decoder
	entries map[string][]byte
}

func newUndoLog() (*undoLog, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("creating undo encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("creating undo decoder: %w", err)
	}

	return &undoLog{
		enc:     enc,
		dec:     dec,
		entries: make(map[string][]byte),
	}, nil
}

func (u *undoLog) save(path string, content []byte) {
	// Empty prior content cannot round-trip through the delete-signal API,
	// so such entries are not restorable and are skipped.
	if len(content) == 0 {
		return
	}
	u.entries[path] = u.enc.EncodeAll(content, nil)
}

func (u *undoLog) restore(path string) ([]byte, bool) {
	compressed, ok := u.entries[path]
	if !ok {
		return nil, false
	}

	content, err := u.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false
	}
	return content, true
}

func (u *undoLog) drop(path string) {
	delete(u.entries, path)
}

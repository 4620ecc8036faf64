// internal/session/session.go
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"slate/internal/compare"
	"slate/internal/config"
	"slate/internal/engine"
	"slate/internal/inventory"
)

const stateDirName = ".slate"

// Session owns one engine instance, the inventory snapshot taken when the
// session opened, and the fingerprint store. The label/base-URL pair is
// carried for consumers; the engine never reads it.
type Session struct {
	ID        string
	Label     string
	BasePath  string
	BaseURL   string
	Engine    *engine.Engine
	Inventory *inventory.Inventory
	DB        *badger.DB
	Logger    *zap.Logger
}

// Intent is the explicit, unambiguous form of a pending operation. It avoids
// the empty-content-means-delete overload of the engine's raw API.
type Intent struct {
	remove  bool
	content []byte
}

// Put declares that path should hold content.
func Put(content []byte) Intent {
	return Intent{content: content}
}

// Remove declares that path should be deleted.
func Remove() Intent {
	return Intent{remove: true}
}

// FindRoot searches upward from startDir for a directory holding the state
// dir, the way a VCS locates its repository root.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, stateDirName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("slate root not found")
}

// Initialize creates the state directory under dir.
func Initialize(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, stateDirName, "state"), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// Open builds a session for cfg.BasePath: opens the fingerprint store if the
// base has been initialized, snapshots the inventory, and wires the engine.
func Open(cfg *config.Config, logger *zap.Logger) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.New().String()
	logger = logger.With(zap.String("session_id", id))

	var db *badger.DB
	statePath := filepath.Join(cfg.BasePath, stateDirName, "state")
	if _, err := os.Stat(filepath.Dir(statePath)); err == nil {
		opts := badger.DefaultOptions(statePath)
		opts.Logger = nil
		db, err = badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("opening fingerprint store: %w", err)
		}
	}

	comparator, err := compare.New(db, cfg.CacheSize, logger)
	if err != nil {
		closeQuietly(db)
		return nil, err
	}

	eng, err := engine.New(comparator, logger)
	if err != nil {
		closeQuietly(db)
		return nil, err
	}

	inv, err := inventory.Snapshot(cfg.BasePath)
	if err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("snapshotting inventory: %w", err)
	}

	logger.Info("session opened",
		zap.String("label", cfg.Label),
		zap.String("base_path", cfg.BasePath),
		zap.Int("inventory_files", inv.Len()))

	return &Session{
		ID:        id,
		Label:     cfg.Label,
		BasePath:  cfg.BasePath,
		BaseURL:   cfg.BaseURL,
		Engine:    eng,
		Inventory: inv,
		DB:        db,
		Logger:    logger,
	}, nil
}

// Diff classifies the pending change for path, resolved against the base
// path when relative.
func (s *Session) Diff(path string, content []byte) engine.DiffRecord {
	return s.Engine.Diff(s.resolve(path), content)
}

// Commit applies the pending change for path.
func (s *Session) Commit(path string, content []byte) engine.DiffRecord {
	return s.Engine.Commit(s.resolve(path), content)
}

// Apply commits an explicit intent. Put with empty content is rejected:
// empty content is reserved as the engine's delete signal and cannot express
// an intentionally empty file.
func (s *Session) Apply(path string, in Intent) (engine.DiffRecord, error) {
	if in.remove {
		return s.Engine.Commit(s.resolve(path), nil), nil
	}
	if len(in.content) == 0 {
		return engine.DiffRecord{}, fmt.Errorf("empty content is reserved as the delete signal")
	}
	return s.Engine.Commit(s.resolve(path), in.content), nil
}

// Undo restores the prior content of the most recent committed update or
// delete for path.
func (s *Session) Undo(path string) (engine.DiffRecord, error) {
	return s.Engine.Undo(s.resolve(path))
}

// History exposes the engine's change history.
func (s *Session) History() *engine.History {
	return s.Engine.History()
}

// Close releases the fingerprint store.
func (s *Session) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *Session) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.BasePath, path)
}

func closeQuietly(db *badger.DB) {
	if db != nil {
		db.Close()
	}
}

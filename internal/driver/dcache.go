package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ksc/internal/project"
)

// Bump when the Snapshot layout changes; old entries then miss instead of
// decoding garbage.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores per-package check snapshots keyed by content digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Snapshot records the outcome of checking one package. A clean snapshot
// lets the CLI skip re-checking a package whose inputs have not changed;
// it is an artifact store only and never alters diagnostics for changed
// inputs.
type Snapshot struct {
	Schema  uint16
	Package string
	Version string

	FilePaths  []string
	FileHashes []project.Digest

	// PackageHash is the key this snapshot was stored under.
	PackageHash project.Digest

	Broken   bool // package had errors
	Warnings int
}

// OpenDiskCache initializes a disk cache at the standard XDG location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "pkgs", hexKey+".mp")
}

// Put serializes and writes a snapshot, replacing any previous entry
// atomically.
func (c *DiskCache) Put(key project.Digest, snap *Snapshot) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	snap.Schema = diskCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(snap); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a snapshot. A missing entry or a schema mismatch is a plain
// miss, not an error.
func (c *DiskCache) Get(key project.Digest) (*Snapshot, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	var snap Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return nil, false, err
	}
	if snap.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	return &snap, true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

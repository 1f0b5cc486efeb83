package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"jvmlower/internal/declfactory"
	"jvmlower/internal/observ"
)

// diskCacheSchema is bumped whenever DiskPayload or the dump format changes.
const diskCacheSchema uint16 = 2

// Digest is a SHA-256 cache key, see UnitKey.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskPayload is the cached outcome of lowering one unit. Only successful
// units are cached.
type DiskPayload struct {
	Schema uint16 `msgpack:"schema"`
	Module string `msgpack:"module"`
	Dump   string `msgpack:"dump"`

	Stats  declfactory.Stats `msgpack:"stats"`
	Timing observ.Report     `msgpack:"timing"`
}

// DiskCache keeps DiskPayloads under <dir>/units/<xx>/<digest>.mp, where xx
// is the first byte of the digest. It is safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens the cache in dir. An empty dir selects
// $XDG_CACHE_HOME/<app>, or ~/.cache/<app> without XDG_CACHE_HOME.
func OpenDiskCache(dir, app string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to locate cache directory: %w", err)
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// UnitKey derives a unit's cache key from its raw bytes and every extra
// intrinsic companion it is lowered with. Companion order does not matter.
func UnitKey(content []byte, companions []string) Digest {
	h := sha256.New()
	fmt.Fprintf(h, "jvmlower/%d\x00", diskCacheSchema)
	h.Write(content)
	names := slices.Clone(companions)
	slices.Sort(names)
	for _, name := range slices.Compact(names) {
		h.Write([]byte{0})
		h.Write([]byte(name))
	}
	var d Digest
	h.Sum(d[:0])
	return d
}

func (c *DiskCache) pathFor(key Digest) string {
	name := key.String()
	return filepath.Join(c.dir, "units", name[:2], name+".mp")
}

// Put writes payload under key. The entry appears atomically: readers see
// either the previous entry or the complete new one.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	payload.Schema = diskCacheSchema
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	path := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Get loads the entry for key into out. A missing entry, one written under
// another schema, or one that no longer decodes is a miss; only I/O
// failures other than absence are errors.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var payload DiskPayload
	if msgpack.Unmarshal(data, &payload) != nil || payload.Schema != diskCacheSchema {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll removes every entry. The directory is renamed aside first so a
// concurrent reader never sees a half-deleted tree.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	aside := fmt.Sprintf("%s.old-%d", c.dir, time.Now().UnixNano())
	if err := os.Rename(c.dir, aside); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(aside)
}

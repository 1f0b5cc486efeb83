package source

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

type (
	// FileID identifies a file entry within a FileSet.
	FileID uint32
)

// FileEntry describes one source file a compilation unit was produced from.
// Only the path and content digest are kept; the lowering pipeline never
// re-reads source text.
type FileEntry struct {
	ID   FileID
	Path string
	Hash [32]byte
}

// Stem returns the file name without directory and extension.
func (f *FileEntry) Stem() string {
	base := filepath.Base(f.Path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// FileSet stores the file entries of one compilation unit.
type FileSet struct {
	files []FileEntry
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// Add records a file entry. Adding the same path twice returns the first id.
func (fs *FileSet) Add(path string, content []byte) FileID {
	norm := filepath.ToSlash(filepath.Clean(path))
	if id, ok := fs.index[norm]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, FileEntry{ID: id, Path: norm, Hash: sha256.Sum256(content)})
	fs.index[norm] = id
	return id
}

// Get returns the entry for id or nil.
func (fs *FileSet) Get(id FileID) *FileEntry {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

func (fs *FileSet) Len() int { return len(fs.files) }

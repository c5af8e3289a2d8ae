package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStorage exposes the structured files of one data directory
type FileStorage struct {
	baseDir    string
	extensions map[string]bool
}

// NewFileStorage opens baseDir read-only. Only files whose extension is in
// extensions are listed; with no extensions every regular file is.
func NewFileStorage(baseDir string, extensions ...string) (*FileStorage, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory", baseDir)
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	return &FileStorage{
		baseDir:    baseDir,
		extensions: exts,
	}, nil
}

// Dir returns the directory backing the storage
func (fs *FileStorage) Dir() string {
	return fs.baseDir
}

// List returns matching file names sorted lexically, so load order does not
// depend on the filesystem
func (fs *FileStorage) List() ([]string, error) {
	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if len(fs.extensions) > 0 && !fs.extensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names, nil
}

// Read returns the raw bytes of a listed file
func (fs *FileStorage) Read(name string) ([]byte, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid file name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(fs.baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Path returns the full path of name inside the storage directory
func (fs *FileStorage) Path(name string) string {
	return filepath.Join(fs.baseDir, name)
}

package fsops

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// MemFS implements FS in memory for testing. Paths are cleaned absolute
// slash-separated strings; parents are created implicitly by WriteFile.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
	seq   int

	// FailCopy, when set, makes copies whose destination equals the key fail.
	FailCopy map[string]error
	// FailMkdirTemp, when set, is returned by MkdirTemp.
	FailMkdirTemp error
}

// NewMemFS creates an empty MemFS containing only the root directory.
func NewMemFS() *MemFS {
	return &MemFS{
		files:    make(map[string][]byte),
		dirs:     map[string]bool{"/": true},
		FailCopy: make(map[string]error),
	}
}

// WriteFile stores a file, creating its parent directories.
func (m *MemFS) WriteFile(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	m.mkdirAllLocked(path.Dir(p))
	m.files[p] = append([]byte(nil), data...)
}

// Files returns a copy of every stored file.
func (m *MemFS) Files() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.files))
	for k, v := range m.files {
		out[k] = string(v)
	}
	return out
}

// IsDir reports whether p is a stored directory.
func (m *MemFS) IsDir(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[path.Clean(p)]
}

func (m *MemFS) Stat(p string) (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if m.dirs[p] {
		return memInfo{name: path.Base(p), dir: true}, nil
	}
	if data, ok := m.files[p]; ok {
		return memInfo{name: path.Base(p), size: int64(len(data))}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}

func (m *MemFS) Exists(p string) (bool, error) {
	_, err := m.Stat(p)
	return err == nil, nil
}

func (m *MemFS) MkdirAll(p string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	for dir := p; dir != "/" && dir != "."; dir = path.Dir(dir) {
		if _, ok := m.files[dir]; ok {
			return &fs.PathError{Op: "mkdir", Path: dir, Err: fs.ErrExist}
		}
	}
	m.mkdirAllLocked(p)
	return nil
}

func (m *MemFS) mkdirAllLocked(p string) {
	for dir := p; ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" || dir == "." {
			return
		}
	}
}

func (m *MemFS) MkdirTemp(dir, pattern string) (string, error) {
	if m.FailMkdirTemp != nil {
		return "", m.FailMkdirTemp
	}
	if dir == "" {
		dir = "/tmp"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	name := strings.Replace(pattern, "*", fmt.Sprintf("%d", m.seq), 1)
	p := path.Join(dir, name)
	m.mkdirAllLocked(p)
	return p, nil
}

func (m *MemFS) RemoveAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	prefix := p + "/"
	for k := range m.files {
		if k == p || strings.HasPrefix(k, prefix) {
			delete(m.files, k)
		}
	}
	for k := range m.dirs {
		if k == p || strings.HasPrefix(k, prefix) {
			delete(m.dirs, k)
		}
	}
	return nil
}

// ReadFile returns the contents of a stored file.
func (m *MemFS) ReadFile(p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path.Clean(p)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *MemFS) CopyFile(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, dst = path.Clean(src), path.Clean(dst)
	if err := m.FailCopy[dst]; err != nil {
		return err
	}
	data, ok := m.files[src]
	if !ok {
		return &fs.PathError{Op: "open", Path: src, Err: fs.ErrNotExist}
	}
	if !m.dirs[path.Dir(dst)] {
		return &fs.PathError{Op: "open", Path: dst, Err: fs.ErrNotExist}
	}
	m.files[dst] = append([]byte(nil), data...)
	return nil
}

func (m *MemFS) CopyDir(src, dst string, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, dst = path.Clean(src), path.Clean(dst)
	if err := m.FailCopy[dst]; err != nil {
		return err
	}
	if !m.dirs[src] {
		return fmt.Errorf("source %q is not a directory", src)
	}
	if _, ok := m.files[dst]; ok {
		if !overwrite {
			return fmt.Errorf("destination %q exists and is not a directory", dst)
		}
		delete(m.files, dst)
	}
	prefix := src + "/"
	m.mkdirAllLocked(dst)
	for k := range m.dirs {
		if strings.HasPrefix(k, prefix) {
			m.dirs[dst+"/"+strings.TrimPrefix(k, prefix)] = true
		}
	}
	for k, v := range m.files {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		target := dst + "/" + strings.TrimPrefix(k, prefix)
		if _, exists := m.files[target]; exists && !overwrite {
			continue
		}
		m.files[target] = append([]byte(nil), v...)
	}
	return nil
}

func (m *MemFS) Glob(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	root = path.Clean(root)
	prefix := root + "/"
	var matches []string
	collect := func(p string) {
		if !strings.HasPrefix(p, prefix) {
			return
		}
		rel := strings.TrimPrefix(p, prefix)
		if ok, _ := doublestar.Match(pattern, rel); ok {
			matches = append(matches, rel)
		}
	}
	for p := range m.files {
		collect(p)
	}
	for p := range m.dirs {
		collect(p)
	}
	sort.Strings(matches)
	return matches, nil
}

func (m *MemFS) ValidateRelPath(relPath string) error {
	return (&RealFS{}).ValidateRelPath(filepath.FromSlash(relPath))
}

type memInfo struct {
	name string
	size int64
	dir  bool
}

func (i memInfo) Name() string { return i.name }
func (i memInfo) Size() int64  { return i.size }
func (i memInfo) Mode() os.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return i.dir }
func (i memInfo) Sys() any           { return nil }

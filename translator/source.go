package translator

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ModuleSource lists and opens VM modules by name.
type ModuleSource interface {
	List() ([]string, error)
	Open(name string) (io.ReadCloser, error)
}

// Ext is the extension of VM source files.
const Ext = ".vm"

// FileSource serves a single .vm file or every .vm file of a directory.
// Module names are the file stems.
type FileSource struct {
	path  string
	isDir bool
	files map[string]string
}

// NewFileSource scans path. Subdirectories are not descended into.
func NewFileSource(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat input")
	}

	s := &FileSource{
		path:  path,
		isDir: info.IsDir(),
		files: make(map[string]string),
	}

	if !s.isDir {
		if filepath.Ext(path) != Ext {
			return nil, errors.Errorf("%s is not a %s file", path, Ext)
		}
		s.files[stem(path)] = path
		return s, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "read input directory")
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		s.files[stem(e.Name())] = filepath.Join(path, e.Name())
	}

	if len(s.files) == 0 {
		return nil, errors.Errorf("no %s files in %s", Ext, path)
	}

	return s, nil
}

func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// IsDir reports whether the source was created from a directory.
func (s *FileSource) IsDir() bool {
	return s.isDir
}

// List returns the module names in byte order.
func (s *FileSource) List() ([]string, error) {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Open opens the file backing a module.
func (s *FileSource) Open(name string) (io.ReadCloser, error) {
	path, ok := s.files[name]
	if !ok {
		return nil, errors.Errorf("no module %s", name)
	}

	return os.Open(path)
}

// OutputPath derives the assembly path for an input: Foo.vm becomes Foo.asm
// in the same directory, and directory Bar becomes Bar/Bar.asm.
func OutputPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrap(err, "stat input")
	}

	if info.IsDir() {
		clean := filepath.Clean(path)
		abs, err := filepath.Abs(clean)
		if err != nil {
			return "", errors.Wrap(err, "resolve input")
		}
		return filepath.Join(clean, filepath.Base(abs)+".asm"), nil
	}

	return strings.TrimSuffix(path, filepath.Ext(path)) + ".asm", nil
}

// MapSource serves modules held in memory, keyed by module name.
type MapSource map[string]string

// List returns the module names in byte order.
func (m MapSource) List() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Open returns a reader over the module text.
func (m MapSource) Open(name string) (io.ReadCloser, error) {
	text, ok := m[name]
	if !ok {
		return nil, errors.Errorf("no module %s", name)
	}

	return io.NopCloser(strings.NewReader(text)), nil
}

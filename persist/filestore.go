package persist

import(
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileStore keeps each key as a file in a local state directory, so a snapshot outlives the
// process that wrote it.
type FileStore struct {
	Dir string
}

// DefaultStateDir is where the file backend lives if no directory is configured.
func DefaultStateDir() string {
	if d,err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "flightdash")
	}
	return ".flightdash"
}

func NewFileStore(dir string) *FileStore {
	if dir == "" { dir = DefaultStateDir() }
	return &FileStore{Dir:dir}
}

func (fs *FileStore)path(key string) string { return filepath.Join(fs.Dir, key) }

func (fs *FileStore)Get(ctx context.Context, key string) (string, error) {
	b,err := os.ReadFile(fs.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrAbsent
	} else if err != nil {
		return "", fmt.Errorf("File-Read %s: %v", fs.path(key), err)
	}
	return string(b), nil
}

// Put writes via a temp file and a rename, so a reader never sees half a value.
func (fs *FileStore)Put(ctx context.Context, key, val string) error {
	if err := os.MkdirAll(fs.Dir, 0700); err != nil {
		return fmt.Errorf("File-Mkdir %s: %v", fs.Dir, err)
	}
	tmp,err := os.CreateTemp(fs.Dir, "."+key+".*")
	if err != nil { return fmt.Errorf("File-Create %s: %v", fs.path(key), err) }

	if _,err := tmp.WriteString(val); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("File-Write %s: %v", fs.path(key), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("File-Close %s: %v", fs.path(key), err)
	}
	if err := os.Rename(tmp.Name(), fs.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("File-Rename %s: %v", fs.path(key), err)
	}
	return nil
}

func (fs *FileStore)Delete(ctx context.Context, key string) error {
	err := os.Remove(fs.path(key))
	if errors.Is(err, os.ErrNotExist) { return ErrAbsent }
	return err
}

// List returns the keys present, skipping any half-written temp files.
func (fs *FileStore)List(ctx context.Context) ([]string, error) {
	entries,err := os.ReadDir(fs.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("File-Readdir %s: %v", fs.Dir, err)
	}

	names := []string{}
	for _,e := range entries {
		if !e.Type().IsRegular() || e.Name()[0] == '.' { continue }
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

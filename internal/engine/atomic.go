package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// PendingFile is one file of a batch written by WriteFilesAtomic.
type PendingFile struct {
	Path string
	Data []byte
}

// WriteFileAtomic writes data to a temporary file next to path, syncs it and
// renames it into place. Readers never observe a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return WriteFilesAtomic([]PendingFile{{Path: path, Data: data}}, perm)
}

// WriteFilesAtomic writes every file of the batch or none of them. All data
// is staged in temporary files first; files already at the target paths are
// moved aside while the batch is renamed into place and restored if any
// rename fails.
func WriteFilesAtomic(files []PendingFile, perm os.FileMode) error {
	staged := make([]string, 0, len(files))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}()
	for _, f := range files {
		if info, err := os.Stat(f.Path); err == nil && info.IsDir() {
			return fmt.Errorf("%s is a directory", f.Path)
		}
		tmp, err := writeTemp(f.Path, f.Data, perm)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	type placed struct {
		path, prev string
	}
	var done []placed
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			p := done[i]
			if p.prev == "" {
				os.Remove(p.path)
				continue
			}
			os.Rename(p.prev, p.path)
		}
	}
	for i, f := range files {
		prev := ""
		if _, err := os.Lstat(f.Path); err == nil {
			prev = staged[i] + ".prev"
			if err := os.Rename(f.Path, prev); err != nil {
				rollback()
				return fmt.Errorf("move aside %s: %w", filepath.Base(f.Path), err)
			}
		}
		if err := os.Rename(staged[i], f.Path); err != nil {
			if prev != "" {
				os.Rename(prev, f.Path)
			}
			rollback()
			return fmt.Errorf("rename into place: %w", err)
		}
		done = append(done, placed{path: f.Path, prev: prev})
	}
	for _, p := range done {
		if p.prev != "" {
			os.Remove(p.prev)
		}
	}
	return nil
}

func writeTemp(path string, data []byte, perm os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return tmpName, nil
}

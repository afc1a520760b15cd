package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/matchbalance/internal/domain/model"
)

// WriteSplit exports the winning split as indented JSON at path.
func WriteSplit(_ context.Context, path string, s model.Split) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode split: %w", ErrStorageWrite, err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(path, data, defaultFileMode); err != nil {
		return fmt.Errorf("%w: split %s: %w", ErrStorageWrite, path, err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in path's directory and renames
// it over path, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte, mode os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/dpvgen/pkg/errors"
	"github.com/matzehuels/dpvgen/pkg/observability"
)

// WriteFile replaces path with data.
//
// The data is written to a temporary file in the same directory and renamed
// over path, so readers see either the old or the new content. The
// temporary file is removed on any failure.
func WriteFile(ctx context.Context, path string, data []byte) (err error) {
	defer func() {
		if err != nil {
			observability.Output().OnWriteError(ctx, path, err)
		} else {
			observability.Output().OnWrite(ctx, path, len(data))
		}
	}()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temporary file in %s", dir)
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", name)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "sync %s", name)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", name)
	}
	if err = os.Chmod(name, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "chmod %s", name)
	}
	if err = os.Rename(name, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "rename to %s", path)
	}
	return nil
}

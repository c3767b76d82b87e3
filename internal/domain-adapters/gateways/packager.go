package gateways

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/ochairo/debugfile/internal/domain/entities"
	"github.com/ochairo/debugfile/internal/domain/interfaces"
)

// Packager writes debug files into zip archives
type Packager struct {
	logger interfaces.Logger
}

// NewPackager creates a new packager
func NewPackager(logger interfaces.Logger) *Packager {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Packager{logger: logger}
}

// PrepareOutput makes sure dest can be written. An existing file is an
// error unless overwrite is set, in which case it is removed.
func (p *Packager) PrepareOutput(dest string, overwrite bool) error {
	_, err := os.Lstat(dest)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat output file: %w", err)
	}

	if !overwrite {
		return entities.NewUserError(entities.ErrOutputExists, "Compressed file was existed: %s", dest)
	}

	p.logger.Debug("Removing existing output", interfaces.F("path", dest))
	if err := os.Remove(dest); err != nil {
		return fmt.Errorf("failed to remove existing output: %w", err)
	}
	return nil
}

// Package writes entries into a zip archive at dest. File entries are stored
// under their name; directory entries keep the directory name as top-level folder.
// The archive is written to a temporary file and renamed into place, so dest
// is never left half written.
func (p *Packager) Package(ctx context.Context, entries []entities.PackageEntry, dest string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create zip file: %w", err)
	}
	tmp := file.Name()
	defer func() {
		if err != nil {
			//nolint:errcheck // Already failing
			file.Close()
			//nolint:errcheck // Best effort cleanup
			os.Remove(tmp)
		}
	}()

	if err := p.write(ctx, zip.NewWriter(file), entries); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close zip file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("failed to move zip file into place: %w", err)
	}
	return nil
}

func (p *Packager) write(ctx context.Context, zw *zip.Writer, entries []entities.PackageEntry) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Stat(entry.Path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", entry.Path, err)
		}

		if info.IsDir() {
			err = p.addDirectory(ctx, zw, entry.Path)
		} else {
			err = p.addFile(zw, entry.Path, entry.Name, info)
		}
		if err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip: %w", err)
	}
	return nil
}

// addDirectory stores every regular file below dir relative to dir's parent
func (p *Packager) addDirectory(ctx context.Context, zw *zip.Writer, dir string) error {
	parent := filepath.Dir(filepath.Clean(dir))

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		return p.addFile(zw, path, filepath.ToSlash(rel), info)
	})
}

func (p *Packager) addFile(zw *zip.Writer, path, name string, info fs.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create zip header: %w", err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to write zip header: %w", err)
	}

	//nolint:gosec // G304: path comes from the entries being packaged
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer src.Close()

	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to write file to zip: %w", err)
	}

	p.logger.Debug("Added to zip", interfaces.F("name", name))
	return nil
}

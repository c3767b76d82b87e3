package gateways

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ochairo/debugfile/internal/domain/entities"
	"github.com/ochairo/debugfile/internal/domain/interfaces"
	"github.com/ochairo/debugfile/internal/domain/interfaces/gateways"
	"github.com/ochairo/debugfile/internal/domain/interfaces/repositories"
	"github.com/ochairo/debugfile/internal/external-adapters/plist"
)

const (
	archiveSuffix = ".xcarchive"
	dsymsDir      = "dSYMs"
	appDSYMSuffix = ".app.dSYM"
)

// ArchiveLocator finds Xcode archives below a root directory
type ArchiveLocator struct {
	reader    gateways.MetadataReader
	inspector gateways.BinaryInspector
	logger    interfaces.Logger
}

var _ repositories.ArchiveRepository = (*ArchiveLocator)(nil)

// NewArchiveLocator creates a new archive locator
func NewArchiveLocator(reader gateways.MetadataReader, inspector gateways.BinaryInspector, logger interfaces.Logger) *ArchiveLocator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ArchiveLocator{
		reader:    reader,
		inspector: inspector,
		logger:    logger,
	}
}

// ListArchives walks query.Root for *.xcarchive bundles and returns the
// matching records sorted by creation time, oldest first
func (l *ArchiveLocator) ListArchives(ctx context.Context, query repositories.ArchiveQuery) ([]*entities.ArchiveRecord, error) {
	root := query.Root
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, entities.NewUserError(entities.ErrArchivePathNotFound, "Archive path does not exist: %s", root)
		}
		return nil, fmt.Errorf("failed to stat archive path: %w", err)
	}

	l.logger.Debug("Finding xcarchive", interfaces.F("root", root), interfaces.F("scheme", query.Scheme))

	records := make([]*entities.ArchiveRecord, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() || !strings.HasSuffix(d.Name(), archiveSuffix) {
			return nil
		}

		infoPath := filepath.Join(path, plist.InfoFileName)
		if _, err := os.Stat(infoPath); err != nil {
			l.logger.Debug("Skipping archive without Info.plist", interfaces.F("path", path))
			return filepath.SkipDir
		}

		record, err := l.readArchive(path, infoPath)
		if err != nil {
			return err
		}
		if matches(record, query) {
			records = append(records, record)
		}

		// Archives are leaves; nothing inside them is another archive
		return filepath.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search archives in %s: %w", root, err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}

func matches(r *entities.ArchiveRecord, q repositories.ArchiveQuery) bool {
	if q.Scheme != "" && r.Name != q.Scheme {
		return false
	}
	if q.ReleaseVersion != "" && r.ReleaseVersion != q.ReleaseVersion {
		return false
	}
	if q.Build != "" && r.Build != q.Build {
		return false
	}
	return true
}

func (l *ArchiveLocator) readArchive(archivePath, infoPath string) (*entities.ArchiveRecord, error) {
	info, err := l.reader.Read(infoPath)
	if err != nil {
		return nil, err
	}

	record := &entities.ArchiveRecord{
		RootPath: archivePath,
		Info:     info,
	}

	if record.Name, err = plist.FetchString(info, "Name"); err != nil {
		return nil, err
	}
	if record.ReleaseVersion, err = plist.FetchString(info, "ApplicationProperties", "CFBundleShortVersionString"); err != nil {
		return nil, err
	}
	if record.Build, err = plist.FetchString(info, "ApplicationProperties", "CFBundleVersion"); err != nil {
		return nil, err
	}
	if record.CreatedAt, err = plist.FetchTime(info, "CreationDate"); err != nil {
		return nil, fmt.Errorf("archive %s: %w", archivePath, err)
	}

	if record.Name == "" {
		return record, nil
	}

	bundle := filepath.Join(archivePath, dsymsDir, record.Name+appDSYMSuffix)
	if stat, err := os.Stat(bundle); err == nil && stat.IsDir() {
		record.DSYMPath = bundle
		record.BinaryPath, err = findDSYMBinary(bundle, record.Name)
		if err != nil {
			return nil, err
		}
	}

	machos, err := l.inspector.Inspect(record.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", record.BinaryPath, err)
	}
	record.Machos = machos

	return record, nil
}

// findDSYMBinary returns the first regular file named name nested at least
// one directory below bundle (normally Contents/Resources/DWARF/<name>)
func findDSYMBinary(bundle, name string) (string, error) {
	var found string
	err := filepath.WalkDir(bundle, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if found != "" {
			return filepath.SkipAll
		}
		if d.IsDir() || d.Name() != name {
			return nil
		}
		if filepath.Dir(path) == bundle {
			return nil
		}
		found = path
		return filepath.SkipAll
	})
	if err != nil {
		return "", fmt.Errorf("failed to search dSYM bundle %s: %w", bundle, err)
	}
	return found, nil
}

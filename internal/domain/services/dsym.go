package services

import (
	"os"
	"path/filepath"

	"github.com/ochairo/debugfile/internal/domain/entities"
)

// DSYMZipName is the archive name for a record's dSYM bundle, e.g. "Demo.app.dSYM.zip"
func DSYMZipName(record *entities.ArchiveRecord) string {
	return filepath.Base(record.DSYMPath) + ".zip"
}

// ResolveDSYMBundles resolves bundle names against dsymsDir and keeps the
// existing directories. The primary bundle comes first; duplicates are dropped.
func ResolveDSYMBundles(dsymsDir, primary string, extras []string) []entities.PackageEntry {
	names := Unique(append([]string{primary}, extras...))

	entries := make([]entities.PackageEntry, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		path := filepath.Join(dsymsDir, name)
		if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
			continue
		}
		entries = append(entries, entities.PackageEntry{Name: name, Path: path})
	}
	return entries
}

// Unique returns values without duplicates, keeping first occurrences in order
func Unique[T comparable](values []T) []T {
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

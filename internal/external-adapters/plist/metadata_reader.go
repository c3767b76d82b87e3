// Package plist reads Xcode archive metadata from property-list files.
package plist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ochairo/debugfile/internal/domain/entities"
	"howett.net/plist"
)

// InfoFileName is the conventional metadata file inside an archive bundle
const InfoFileName = "Info.plist"

// MetadataReader parses property lists with howett.net/plist
type MetadataReader struct{}

// NewMetadataReader creates a new metadata reader
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// Read parses the metadata at path. Path is either the plist itself or a
// directory holding an Info.plist.
func (r *MetadataReader) Read(path string) (map[string]any, error) {
	file, err := resolve(path)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G304: file is the archive metadata located by the caller
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	return Parse(data)
}

// Parse decodes XML, binary or OpenStep plist bytes into a generic map
func Parse(data []byte) (map[string]any, error) {
	info := make(map[string]any)
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse plist: %w", err)
	}
	return info, nil
}

func resolve(path string) (string, error) {
	stat, err := os.Stat(path)
	if err == nil && !stat.IsDir() {
		return path, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	candidate := filepath.Join(path, InfoFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	return "", entities.NewUserError(entities.ErrMissingFile, "File not found: %s", candidate)
}

// FetchKey walks nested dictionaries following keys. The boolean is false
// when any segment is absent or not a dictionary.
func FetchKey(info map[string]any, keys ...string) (any, bool, error) {
	if len(keys) == 0 {
		return nil, false, entities.ErrNoKeys
	}

	var current any = info
	for _, key := range keys {
		dict, ok := current.(map[string]any)
		if !ok {
			return nil, false, nil
		}
		current, ok = dict[key]
		if !ok {
			return nil, false, nil
		}
	}

	return current, true, nil
}

// FetchString returns the string at keys, or "" when absent.
// Numeric values are formatted, since some build tools write CFBundleVersion as an integer.
func FetchString(info map[string]any, keys ...string) (string, error) {
	v, ok, err := FetchKey(info, keys...)
	if err != nil || !ok {
		return "", err
	}

	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(s), nil
	}
}

// FetchTime returns the date at keys, or the zero time when absent
func FetchTime(info map[string]any, keys ...string) (time.Time, error) {
	v, ok, err := FetchKey(info, keys...)
	if err != nil || !ok {
		return time.Time{}, err
	}

	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", t, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("unexpected date type %T", v)
	}
}

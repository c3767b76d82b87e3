// Package yaml exports action results as YAML and renders record listings.
package yaml

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/debugfile/internal/domain/entities"
)

// Exporter publishes shared values to a YAML file and/or the process environment.
// A zero Exporter does nothing.
type Exporter struct {
	File string
	Env  bool

	setenv func(key, value string) error
}

// NewExporter creates an exporter. An empty file disables the file export.
func NewExporter(file string, env bool) *Exporter {
	return &Exporter{File: file, Env: env, setenv: os.Setenv}
}

// Export writes values. Existing keys in the export file are kept unless
// overwritten, so several actions can share one file.
func (e *Exporter) Export(values map[string]any) error {
	if e.Env {
		for _, key := range sortedKeys(values) {
			value, err := envValue(values[key])
			if err != nil {
				return err
			}
			if err := e.env(key, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}
		}
	}

	if e.File == "" {
		return nil
	}

	merged, err := ReadExport(e.File)
	if err != nil {
		return err
	}
	for k, v := range values {
		merged[k] = v
	}

	data, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode export file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(e.File), 0750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(e.File, data, 0600); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func (e *Exporter) env(key, value string) error {
	if e.setenv == nil {
		return os.Setenv(key, value)
	}
	return e.setenv(key, value)
}

// ReadExport loads an export file; a missing file yields an empty map
func ReadExport(path string) (map[string]any, error) {
	values := make(map[string]any)

	//nolint:gosec // G304: path is the user-configured export file
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse export file: %w", err)
	}
	if values == nil {
		values = make(map[string]any)
	}
	return values, nil
}

// envValue flattens a value for an environment variable; structured values become YAML
func envValue(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode value: %w", err)
	}
	return string(data), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteRecords renders archive records as a YAML document
func WriteRecords(w io.Writer, records []*entities.ArchiveRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return enc.Close()
}

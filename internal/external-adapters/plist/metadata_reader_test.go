package plist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ochairo/debugfile/internal/domain/entities"
	"howett.net/plist"
)

func writeInfo(t *testing.T, dir string, info map[string]any) string {
	t.Helper()

	data, err := plist.Marshal(info, plist.XMLFormat)
	if err != nil {
		t.Fatalf("Failed to marshal plist: %v", err)
	}

	path := filepath.Join(dir, InfoFileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write plist: %v", err)
	}
	return path
}

func sampleInfo(created time.Time) map[string]any {
	return map[string]any{
		"Name":         "Demo",
		"CreationDate": created,
		"ApplicationProperties": map[string]any{
			"CFBundleShortVersionString": "1.2.3",
			"CFBundleVersion":            "42",
		},
	}
}

func TestMetadataReader_ReadFileAndDirectory(t *testing.T) {
	reader := NewMetadataReader()
	dir := t.TempDir()
	created := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	path := writeInfo(t, dir, sampleInfo(created))

	for _, input := range []string{path, dir} {
		info, err := reader.Read(input)
		if err != nil {
			t.Fatalf("Read(%s) failed: %v", input, err)
		}

		name, err := FetchString(info, "Name")
		if err != nil || name != "Demo" {
			t.Errorf("Name = %q, %v; want Demo", name, err)
		}

		version, _ := FetchString(info, "ApplicationProperties", "CFBundleShortVersionString")
		if version != "1.2.3" {
			t.Errorf("version = %q, want 1.2.3", version)
		}

		build, _ := FetchString(info, "ApplicationProperties", "CFBundleVersion")
		if build != "42" {
			t.Errorf("build = %q, want 42", build)
		}

		got, err := FetchTime(info, "CreationDate")
		if err != nil {
			t.Fatalf("FetchTime failed: %v", err)
		}
		if !got.Equal(created) {
			t.Errorf("CreationDate = %v, want %v", got, created)
		}
	}
}

func TestMetadataReader_MissingFile(t *testing.T) {
	reader := NewMetadataReader()

	_, err := reader.Read(t.TempDir())
	if err == nil {
		t.Fatal("Expected error for missing Info.plist, got nil")
	}
	if !errors.Is(err, entities.ErrMissingFile) {
		t.Errorf("Expected ErrMissingFile, got: %v", err)
	}
	if !entities.IsUserError(err) {
		t.Errorf("Expected a user error, got: %T", err)
	}
}

func TestMetadataReader_InvalidPlist(t *testing.T) {
	reader := NewMetadataReader()
	dir := t.TempDir()
	path := filepath.Join(dir, InfoFileName)
	if err := os.WriteFile(path, []byte("<plist><dict><key>"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := reader.Read(path); err == nil {
		t.Fatal("Expected parse error, got nil")
	}
}

func TestFetchKey(t *testing.T) {
	info := sampleInfo(time.Now())

	tests := []struct {
		name   string
		keys   []string
		wantOK bool
	}{
		{name: "top level", keys: []string{"Name"}, wantOK: true},
		{name: "nested", keys: []string{"ApplicationProperties", "CFBundleVersion"}, wantOK: true},
		{name: "missing", keys: []string{"Missing"}, wantOK: false},
		{name: "through non-dict", keys: []string{"Name", "Inner"}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := FetchKey(info, tt.keys...)
			if err != nil {
				t.Fatalf("FetchKey failed: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestFetchKey_NoKeys(t *testing.T) {
	_, _, err := FetchKey(map[string]any{})
	if !errors.Is(err, entities.ErrNoKeys) {
		t.Fatalf("Expected ErrNoKeys, got: %v", err)
	}
	if entities.IsUserError(err) {
		t.Error("ErrNoKeys must not be reported as a user error")
	}
}

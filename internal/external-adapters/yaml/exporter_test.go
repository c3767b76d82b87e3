package yaml

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ochairo/debugfile/internal/domain/entities"
)

func TestExporter_FileMergesValues(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out", "debugfile.yml")

	if err := NewExporter(file, false).Export(map[string]any{entities.SharedDSYMZipPath: "/tmp/Demo.app.dSYM.zip"}); err != nil {
		t.Fatalf("first Export failed: %v", err)
	}
	if err := NewExporter(file, false).Export(map[string]any{entities.SharedProguardZipPath: "/tmp/release-proguard.zip"}); err != nil {
		t.Fatalf("second Export failed: %v", err)
	}

	values, err := ReadExport(file)
	if err != nil {
		t.Fatalf("ReadExport failed: %v", err)
	}
	if values[entities.SharedDSYMZipPath] != "/tmp/Demo.app.dSYM.zip" {
		t.Errorf("%s = %v", entities.SharedDSYMZipPath, values[entities.SharedDSYMZipPath])
	}
	if values[entities.SharedProguardZipPath] != "/tmp/release-proguard.zip" {
		t.Errorf("%s = %v", entities.SharedProguardZipPath, values[entities.SharedProguardZipPath])
	}
}

func TestExporter_Env(t *testing.T) {
	got := make(map[string]string)
	e := &Exporter{Env: true, setenv: func(k, v string) error {
		got[k] = v
		return nil
	}}

	records := []*entities.ArchiveRecord{{Name: "Demo", ReleaseVersion: "1.0"}}
	err := e.Export(map[string]any{
		entities.SharedDSYMZipPath: "/tmp/a.zip",
		entities.SharedDSYMsList:   records,
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if got[entities.SharedDSYMZipPath] != "/tmp/a.zip" {
		t.Errorf("env %s = %q", entities.SharedDSYMZipPath, got[entities.SharedDSYMZipPath])
	}
	if !strings.Contains(got[entities.SharedDSYMsList], "name: Demo") {
		t.Errorf("env %s = %q, want YAML list", entities.SharedDSYMsList, got[entities.SharedDSYMsList])
	}
}

func TestExporter_Disabled(t *testing.T) {
	if err := (&Exporter{}).Export(map[string]any{"KEY": "value"}); err != nil {
		t.Fatalf("zero Exporter should be a no-op, got: %v", err)
	}
}

func TestReadExport_Missing(t *testing.T) {
	values, err := ReadExport(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("ReadExport failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("Expected empty values, got %v", values)
	}
}

func TestWriteRecords(t *testing.T) {
	var buf bytes.Buffer
	records := []*entities.ArchiveRecord{{
		Name:           "Demo",
		ReleaseVersion: "1.2.3",
		Build:          "7",
		CreatedAt:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Machos:         []entities.MachoInfo{{Architecture: "arm64", UUID: "ABC"}},
	}}

	if err := WriteRecords(&buf, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"name: Demo", "release_version: 1.2.3", "arch: arm64", "uuid: ABC"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"howett.net/plist"

	"github.com/ochairo/debugfile/internal/domain/entities"
	"github.com/ochairo/debugfile/internal/external-adapters/yaml"
)

// createArchive writes an Xcode archive with an Info.plist and an app dSYM bundle
func createArchive(t *testing.T, root, name, version string, created time.Time) string {
	t.Helper()

	archive := filepath.Join(root, name+" "+created.Format("2006-01-02 15.04")+".xcarchive")
	contents := filepath.Join(archive, "dSYMs", name+".app.dSYM", "Contents")
	if err := os.MkdirAll(contents, 0750); err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	if err := os.WriteFile(filepath.Join(contents, "Info.plist"), []byte("bundle"), 0600); err != nil {
		t.Fatalf("Failed to write bundle plist: %v", err)
	}

	data, err := plist.Marshal(map[string]any{
		"Name":         name,
		"CreationDate": created,
		"ApplicationProperties": map[string]any{
			"CFBundleShortVersionString": version,
			"CFBundleVersion":            "42",
		},
	}, plist.XMLFormat)
	if err != nil {
		t.Fatalf("Failed to marshal plist: %v", err)
	}
	if err := os.WriteFile(filepath.Join(archive, "Info.plist"), data, 0600); err != nil {
		t.Fatalf("Failed to write Info.plist: %v", err)
	}
	return archive
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLI_DSYM(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	exportFile := filepath.Join(out, "export.yaml")
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	createArchive(t, root, "Demo", "1.0.0", base)
	createArchive(t, root, "Demo", "1.1.0", base.Add(time.Hour))
	createArchive(t, root, "Other", "9.0.0", base.Add(2*time.Hour))

	code, stdout, stderr := execute(t, "dsym",
		"--archive-path", root,
		"--scheme", "Demo",
		"--output-path", out,
		"--checksum",
		"--export-file", exportFile,
	)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	zipPath := filepath.Join(out, "Demo.app.dSYM.zip")
	if strings.TrimSpace(stdout) != zipPath {
		t.Errorf("stdout = %q, want %q", stdout, zipPath)
	}
	if _, err := os.Stat(zipPath + ".sha256"); err != nil {
		t.Errorf("Expected checksum file: %v", err)
	}

	exported, err := yaml.ReadExport(exportFile)
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}
	if exported[entities.SharedDSYMZipPath] != zipPath {
		t.Errorf("exported = %v", exported)
	}

	// Second run without --overwrite must refuse to replace the archive
	code, _, stderr = execute(t, "dsym", "--archive-path", root, "--scheme", "Demo", "--output-path", out)
	if code != exitUserError {
		t.Errorf("exit code = %d, want %d", code, exitUserError)
	}
	if !strings.Contains(stderr, "Compressed file was existed") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCLI_DSYMFind(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	createArchive(t, root, "Demo", "2.0.0", base)
	createArchive(t, root, "Demo", "1.5.0", base.Add(time.Hour))

	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     string
	}{
		{"latest by date", []string{"--scheme", "Demo"}, exitOK, "Demo 1.5.0 (42)"},
		{"latest by version", []string{"--scheme", "Demo", "--latest-by", "version"}, exitOK, "Demo 2.0.0 (42)"},
		{"no match", []string{"--scheme", "Nope"}, exitUserError, ""},
		{"invalid latest-by", []string{"--latest-by", "size"}, exitUserError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"dsym", "find", "--archive-path", root}, tt.args...)
			code, stdout, stderr := execute(t, args...)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if tt.want != "" && !strings.HasPrefix(stdout, tt.want) {
				t.Errorf("stdout = %q, want prefix %q", stdout, tt.want)
			}
		})
	}
}

func TestCLI_ListDSYM(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	createArchive(t, root, "A", "1.0.0", base)
	createArchive(t, root, "B", "1.0.0", base)

	code, stdout, stderr := execute(t, "list-dsym", "--archive-path", root, "--scheme", "A", "--format", "yaml")
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "name: A") || strings.Contains(stdout, "name: B") {
		t.Errorf("stdout = %q, want only archive A", stdout)
	}

	code, _, _ = execute(t, "list-dsym", "--archive-path", root, "--format", "xml")
	if code != exitUserError {
		t.Errorf("exit code = %d for unknown format, want %d", code, exitUserError)
	}

	code, _, _ = execute(t, "list-dsym", "--archive-path", filepath.Join(root, "missing"))
	if code != exitUserError {
		t.Errorf("exit code = %d for missing root, want %d", code, exitUserError)
	}
}

func TestCLI_Proguard(t *testing.T) {
	app := t.TempDir()
	out := t.TempDir()
	mapping := filepath.Join(app, "build", "outputs", "mapping", "release", "mapping.txt")
	if err := os.MkdirAll(filepath.Dir(mapping), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(mapping, []byte("a -> b"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DF_PROGUARD_PATH", app)
	t.Setenv("DF_PROGUARD_OUTPUT_PATH", out)

	code, stdout, stderr := execute(t, "proguard")
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	want := filepath.Join(out, "release-proguard.zip")
	if strings.TrimSpace(stdout) != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	code, _, stderr = execute(t, "proguard", "--build-type", "debug")
	if code != exitUserError {
		t.Errorf("exit code = %d, want %d", code, exitUserError)
	}
	if !strings.Contains(stderr, "No found any proguard file") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCLI_ConfigFile(t *testing.T) {
	app := t.TempDir()
	out := t.TempDir()
	mapping := filepath.Join(app, "build", "outputs", "mapping", "paid", "beta", "mapping.txt")
	if err := os.MkdirAll(filepath.Dir(mapping), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(mapping, []byte("a -> b"), 0600); err != nil {
		t.Fatal(err)
	}

	cfgFile := filepath.Join(t.TempDir(), "debugfile.yaml")
	cfg := "app_path: " + app + "\nbuild_type: beta\nflavor: paid\noutput_path: " + out + "\n"
	if err := os.WriteFile(cfgFile, []byte(cfg), 0600); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := execute(t, "--config", cfgFile, "proguard")
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if want := filepath.Join(out, "paid-beta-proguard.zip"); strings.TrimSpace(stdout) != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	code, _, _ = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "proguard")
	if code != exitUserError {
		t.Errorf("exit code = %d for missing config, want %d", code, exitUserError)
	}
}

func TestCLI_VersionAndFlags(t *testing.T) {
	code, stdout, _ := execute(t, "version", "--short")
	if code != exitOK || strings.TrimSpace(stdout) != version {
		t.Errorf("version --short = %d %q", code, stdout)
	}

	code, _, _ = execute(t, "proguard", "--no-such-flag")
	if code != exitUserError {
		t.Errorf("exit code = %d for unknown flag, want %d", code, exitUserError)
	}
}

package services

import (
	"os"
	"path/filepath"

	"github.com/ochairo/debugfile/internal/domain/entities"
	"github.com/ochairo/debugfile/internal/domain/interfaces"
)

// ProguardFile is a well-known Android build output
type ProguardFile struct {
	Name string
	Dir  string
}

// WellKnownProguardFiles are looked up under <app>/<dir>/<flavor>/<build type>/<name>
var WellKnownProguardFiles = []ProguardFile{
	{Name: "mapping.txt", Dir: "build/outputs/mapping"},
	{Name: "AndroidManifest.xml", Dir: "build/intermediates/manifests/full"},
	{Name: "R.txt", Dir: "build/intermediates/symbols"},
}

// ProguardQuery locates Android debug files for one build variant
type ProguardQuery struct {
	AppPath    string
	BuildType  string
	Flavor     string
	ExtraFiles []string
}

// FindProguardFiles returns the existing well-known files followed by the
// existing extra files. Names are unique: a later file whose base name is
// already taken is skipped with a warning.
func FindProguardFiles(q ProguardQuery, logger interfaces.Logger) []entities.ProguardFileEntry {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	found := make([]entities.ProguardFileEntry, 0, len(WellKnownProguardFiles)+len(q.ExtraFiles))
	for _, file := range WellKnownProguardFiles {
		path := filepath.Join(q.AppPath, filepath.FromSlash(file.Dir), q.Flavor, q.BuildType, file.Name)
		existed := fileExists(path)
		logger.Debug("Checked proguard file", interfaces.F("path", path), interfaces.F("exist", existed))
		if existed {
			found = append(found, entities.ProguardFileEntry{Name: file.Name, Path: path})
		}
	}

	for _, path := range q.ExtraFiles {
		existed := fileExists(path)
		logger.Debug("Checked extra file", interfaces.F("path", path), interfaces.F("exist", existed))
		if existed {
			found = append(found, entities.ProguardFileEntry{Name: filepath.Base(path), Path: path})
		}
	}

	return uniqueByName(found, logger)
}

func uniqueByName(files []entities.ProguardFileEntry, logger interfaces.Logger) []entities.ProguardFileEntry {
	taken := make(map[string]string, len(files))
	out := make([]entities.ProguardFileEntry, 0, len(files))
	for _, f := range files {
		if prev, ok := taken[f.Name]; ok {
			if prev != f.Path {
				logger.Warn("Skipped file with duplicate name",
					interfaces.F("name", f.Name), interfaces.F("path", f.Path), interfaces.F("kept", prev))
			}
			continue
		}
		taken[f.Name] = f.Path
		out = append(out, f)
	}
	return out
}

// ProguardZipName is "<flavor>-<build type>-proguard.zip", or "<build type>-proguard.zip" without a flavor
func ProguardZipName(buildType, flavor string) string {
	if flavor == "" {
		return buildType + "-proguard.zip"
	}
	return flavor + "-" + buildType + "-proguard.zip"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

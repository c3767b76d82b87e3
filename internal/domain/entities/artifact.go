// Package entities defines core domain models and data structures.
package entities

// PackageEntry is a single source handed to the packager.
// Path may point to a regular file or a directory.
type PackageEntry struct {
	Name string
	Path string
}

// ProguardFileEntry is a located Android mapping, manifest, or symbol file
type ProguardFileEntry struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// PackageEntry converts a ProGuard file into a packager input
func (e ProguardFileEntry) PackageEntry() PackageEntry {
	return PackageEntry{Name: e.Name, Path: e.Path}
}

package entities

import "time"

// ArchiveRecord describes one Xcode archive bundle and the debug symbols inside it
type ArchiveRecord struct {
	RootPath       string         `json:"root_path" yaml:"root_path"`
	DSYMPath       string         `json:"dsym_path" yaml:"dsym_path"`
	BinaryPath     string         `json:"binary_path" yaml:"binary_path"`
	Name           string         `json:"name" yaml:"name"`
	ReleaseVersion string         `json:"release_version" yaml:"release_version"`
	Build          string         `json:"build" yaml:"build"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	Machos         []MachoInfo    `json:"machos" yaml:"machos"`
	Info           map[string]any `json:"-" yaml:"-"`
}

// MachoInfo identifies one architecture slice of a debug-symbol binary
type MachoInfo struct {
	Architecture string `json:"arch" yaml:"arch"`
	UUID         string `json:"uuid" yaml:"uuid"`
}

// HasDSYM reports whether the archive carries an app dSYM bundle
func (r *ArchiveRecord) HasDSYM() bool {
	return r.DSYMPath != ""
}

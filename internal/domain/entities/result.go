package entities

// Shared value keys written after a successful action
const (
	SharedDSYMZipPath     = "DF_DSYM_ZIP_PATH"
	SharedProguardZipPath = "DF_PROGUARD_ZIP_PATH"
	SharedDSYMsList       = "DF_DSYMS_LIST"
)

// PackageResult describes a produced zip archive and its optional sidecars
type PackageResult struct {
	ZipPath   string   `json:"zip_path" yaml:"zip_path"`
	Files     []string `json:"files" yaml:"files"`
	Checksum  string   `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Signature string   `json:"signature,omitempty" yaml:"signature,omitempty"`
}

// DSYMResult is the outcome of packaging the latest dSYM
type DSYMResult struct {
	Record *ArchiveRecord
	PackageResult
}

// ListResult is the outcome of listing dSYMs
type ListResult struct {
	Records []*ArchiveRecord
}

// ProguardResult is the outcome of packaging ProGuard files
type ProguardResult struct {
	Entries []ProguardFileEntry
	PackageResult
}

package gateways

import (
	"context"

	"github.com/ochairo/debugfile/internal/domain/entities"
)

// MetadataReader parses archive property lists into generic key/value maps
type MetadataReader interface {
	Read(path string) (map[string]any, error)
}

// BinaryInspector extracts per-architecture identifiers from debug-symbol binaries
type BinaryInspector interface {
	// Inspect returns one MachoInfo per slice. An empty path yields an empty list.
	Inspect(path string) ([]entities.MachoInfo, error)
}

// Packager writes zip archives from named sources
type Packager interface {
	PrepareOutput(dest string, overwrite bool) error
	Package(ctx context.Context, entries []entities.PackageEntry, dest string) error
}

// ChecksumWriter writes a SHA256 sidecar next to a file
type ChecksumWriter interface {
	WriteChecksum(path string) (sum string, err error)
}

// Signer writes a detached signature next to a file and returns its path
type Signer interface {
	SignFile(path string) (string, error)
}

// Exporter publishes shared values once an action has succeeded
type Exporter interface {
	Export(values map[string]any) error
}

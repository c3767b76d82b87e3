// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/debugfile/internal/domain/entities"
)

// ArchiveQuery narrows an archive search. Empty fields match everything.
type ArchiveQuery struct {
	Root           string
	Scheme         string
	ReleaseVersion string
	Build          string
}

// ArchiveRepository locates Xcode archives on disk
type ArchiveRepository interface {
	// ListArchives returns matching records ordered by creation time, oldest first
	ListArchives(ctx context.Context, query ArchiveQuery) ([]*entities.ArchiveRecord, error)
}

// Package services implements the pure decision logic behind the debug-file actions.
package services

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ochairo/debugfile/internal/domain/entities"
)

// LatestBy selects how the "latest" archive is chosen
type LatestBy string

// Supported selection modes
const (
	LatestByDate    LatestBy = "date"
	LatestByVersion LatestBy = "version"
)

// ParseLatestBy validates a selection mode. Empty means LatestByDate.
func ParseLatestBy(s string) (LatestBy, error) {
	switch LatestBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", LatestByDate:
		return LatestByDate, nil
	case LatestByVersion:
		return LatestByVersion, nil
	default:
		return "", fmt.Errorf("unknown latest-by mode %q (want date or version)", s)
	}
}

// SelectLatest returns the newest record, or nil when records is empty.
// Ties keep the first record encountered.
func SelectLatest(records []*entities.ArchiveRecord, by LatestBy) *entities.ArchiveRecord {
	if by == LatestByVersion {
		return latestByVersion(records)
	}

	var latest *entities.ArchiveRecord
	for _, r := range records {
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return latest
}

// latestByVersion ranks records without a parseable version below every parseable one
func latestByVersion(records []*entities.ArchiveRecord) *entities.ArchiveRecord {
	var (
		latest  *entities.ArchiveRecord
		version *releaseVersion
	)

	for _, r := range records {
		v, ok := parseVersion(r.ReleaseVersion)
		switch {
		case latest == nil:
			latest = r
			if ok {
				version = v
			}
		case !ok:
			continue
		case version == nil || v.compare(version) > 0:
			latest, version = r, v
		}
	}
	return latest
}

// releaseVersion orders semantic versions and dotted numeric versions with
// more than three parts, such as "1.2.3.4"
type releaseVersion struct {
	parts  []uint64
	semver *semver.Version
}

func parseVersion(s string) (*releaseVersion, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if v, err := semver.NewVersion(s); err == nil {
		return &releaseVersion{parts: []uint64{v.Major(), v.Minor(), v.Patch()}, semver: v}, true
	}

	fields := strings.Split(s, ".")
	parts := make([]uint64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, false
		}
		parts = append(parts, n)
	}
	return &releaseVersion{parts: parts}, true
}

func (v *releaseVersion) compare(o *releaseVersion) int {
	for i := 0; i < max(len(v.parts), len(o.parts)); i++ {
		a, b := part(v.parts, i), part(o.parts, i)
		if a != b {
			return cmp.Compare(a, b)
		}
	}
	if v.semver != nil && o.semver != nil {
		return v.semver.Compare(o.semver)
	}
	return 0
}

func part(parts []uint64, i int) uint64 {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// Package analyze turns digest buckets into duplicate groups with a
// deterministic keep/dupe split and reclaimable-space accounting.
package analyze

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/sdejongh/ddupe/pkg/models"
)

// StatFunc returns the size of a file in bytes
type StatFunc func(path string) (int64, error)

// Analyze builds the duplicate analysis for a digest -> paths mapping
//
// Members of each bucket are sorted with ComparePaths; the first is kept and the
// rest become dupes. Dupes whose size cannot be read stay removable but add
// nothing to the savings total. Groups are ordered by keep path so the
// result does not depend on map iteration order.
func Analyze(buckets map[models.Digest][]string, stat StatFunc) *models.DuplicateAnalysis {
	analysis := &models.DuplicateAnalysis{}

	digests := make([]models.Digest, 0, len(buckets))
	for digest, members := range buckets {
		if len(members) >= 2 {
			digests = append(digests, digest)
		}
	}

	groups := make([]models.DuplicateGroup, 0, len(digests))
	for _, digest := range digests {
		members := append([]string(nil), buckets[digest]...)
		slices.SortFunc(members, ComparePaths)

		groups = append(groups, models.DuplicateGroup{
			Digest: digest,
			Keep:   members[0],
			Dupes:  members[1:],
		})
	}

	slices.SortFunc(groups, func(a, b models.DuplicateGroup) int {
		if c := ComparePaths(a.Keep, b.Keep); c != 0 {
			return c
		}
		return strings.Compare(string(a.Digest), string(b.Digest))
	})

	for _, group := range groups {
		for _, dupe := range group.Dupes {
			size, err := stat(dupe)
			if err != nil {
				analysis.UnsizedFiles = append(analysis.UnsizedFiles, dupe)
			} else {
				analysis.TotalSavingBytes += size
			}
			analysis.RemovableFiles = append(analysis.RemovableFiles, dupe)
		}
		analysis.Groups = append(analysis.Groups, group)
	}

	return analysis
}

// ComparePaths orders paths one component at a time
// "photos/x" sorts before "photos copy/x" because "photos" < "photos copy".
// A path that is a component prefix of another sorts first; the root of an
// absolute path sorts before any name. Paths with equal components fall
// back to byte order so the ordering stays total.
func ComparePaths(a, b string) int {
	ca, cb := components(a), components(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if c := strings.Compare(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	if len(ca) != len(cb) {
		if len(ca) < len(cb) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func components(path string) []string {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	// drop "." components the way path iteration does
	parts = slices.DeleteFunc(parts, func(p string) bool { return p == "." })
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		parts = append([]string{""}, parts...)
	}
	return parts
}

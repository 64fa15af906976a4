// Package scan builds digest buckets from a file list and drives a scan
// from traversal through resolution.
package scan

import (
	"github.com/sdejongh/ddupe/pkg/models"
)

// Buckets maps a content digest to every path that produced it
// Only one goroutine may write to a Buckets value
type Buckets struct {
	m     map[models.Digest][]string
	files int
}

// NewBuckets creates an empty bucket set
func NewBuckets() *Buckets {
	return &Buckets{m: make(map[models.Digest][]string)}
}

// Add records path under digest
func (b *Buckets) Add(digest models.Digest, path string) {
	b.m[digest] = append(b.m[digest], path)
	b.files++
}

// Len returns the number of distinct digests
func (b *Buckets) Len() int {
	return len(b.m)
}

// Files returns the number of paths added
func (b *Buckets) Files() int {
	return b.files
}

// Map returns the underlying digest -> paths mapping
// Callers must treat it as read-only
func (b *Buckets) Map() map[models.Digest][]string {
	return b.m
}

package models

// DuplicateGroup is a set of files sharing one digest
// Keep is the smallest path in component order, Dupes the rest in ascending order
type DuplicateGroup struct {
	Digest Digest   `json:"digest" yaml:"digest"`
	Keep   string   `json:"keep" yaml:"keep"`
	Dupes  []string `json:"dupes" yaml:"dupes"`
}

// Candidates returns the keep path followed by every dupe
func (g DuplicateGroup) Candidates() []string {
	candidates := make([]string, 0, len(g.Dupes)+1)
	candidates = append(candidates, g.Keep)
	return append(candidates, g.Dupes...)
}

// Size returns the number of files in the group
func (g DuplicateGroup) Size() int {
	return len(g.Dupes) + 1
}

// DuplicateAnalysis is the result of analysing one scan
// It is built once and never mutated afterwards
type DuplicateAnalysis struct {
	// Groups holds every bucket with at least two members
	Groups []DuplicateGroup

	// RemovableFiles is the union of all dupes, disjoint from every keep
	RemovableFiles []string

	// TotalSavingBytes sums the sizes of removable files that could be stat'ed
	TotalSavingBytes int64

	// UnsizedFiles lists removable files whose size lookup failed
	UnsizedFiles []string
}

// TotalDupes returns the number of deletion candidates
func (a *DuplicateAnalysis) TotalDupes() int {
	return len(a.RemovableFiles)
}

// HasDuplicates reports whether any group was found
func (a *DuplicateAnalysis) HasDuplicates() bool {
	return len(a.Groups) > 0
}

package resolve

import (
	"strconv"
	"strings"
)

// Confirm is the answer to a yes/no question
type Confirm int

const (
	// Decline is the default for anything but an explicit yes
	Decline Confirm = iota
	// Accept is "y" or "yes", case-insensitive
	Accept
)

// ParseConfirm interprets a line typed at a yes/no prompt
func ParseConfirm(line string) Confirm {
	answer := strings.TrimSpace(line)
	if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
		return Accept
	}
	return Decline
}

// SelectionKind classifies a line typed at the keep-which-file prompt
type SelectionKind int

const (
	// SelectionInvalid means the line must be asked again
	SelectionInvalid SelectionKind = iota
	// SelectionKeep keeps the candidate at Index and deletes the others
	SelectionKeep
	// SelectionKeepAll keeps every candidate
	SelectionKeepAll
)

// Selection is a parsed keep-which-file answer
type Selection struct {
	Kind SelectionKind
	// Index is 1-based and only set for SelectionKeep
	Index int
}

// KeepIndex returns a selection keeping candidate n
func KeepIndex(n int) Selection {
	return Selection{Kind: SelectionKeep, Index: n}
}

// KeepAll returns a selection keeping every candidate
func KeepAll() Selection {
	return Selection{Kind: SelectionKeepAll}
}

// Invalid returns a selection that must be asked again
func Invalid() Selection {
	return Selection{Kind: SelectionInvalid}
}

// ParseSelection interprets a line typed at the keep-which-file prompt
// An empty line selects candidate 1, "a" or "all" keeps everything
func ParseSelection(line string, count int) Selection {
	answer := strings.TrimSpace(line)
	if answer == "" {
		return KeepIndex(1)
	}
	if strings.EqualFold(answer, "a") || strings.EqualFold(answer, "all") {
		return KeepAll()
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > count {
		return Invalid()
	}
	return KeepIndex(n)
}

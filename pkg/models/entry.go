package models

import (
	"fmt"
	"strings"
)

// Digest is the hex-encoded 256-bit content digest of a file
// Two files with equal digests are treated as duplicates
type Digest string

// DigestLength is the number of hex characters in a Digest
const DigestLength = 64

// Short returns the first 12 characters of the digest for display
func (d Digest) Short() string {
	if len(d) < 12 {
		return string(d)
	}
	return string(d[:12])
}

// Valid reports whether the digest is a 64 character lowercase hex string
func (d Digest) Valid() bool {
	if len(d) != DigestLength {
		return false
	}
	for _, c := range d {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// DigestAlgorithm defines how file contents are fingerprinted
type DigestAlgorithm string

const (
	// AlgorithmSHA256 uses SHA-256 (default)
	AlgorithmSHA256 DigestAlgorithm = "sha256"
	// AlgorithmBLAKE3 uses BLAKE3 with a 256-bit output
	AlgorithmBLAKE3 DigestAlgorithm = "blake3"
)

// ParseDigestAlgorithm parses an algorithm name (case-insensitive)
func ParseDigestAlgorithm(s string) (DigestAlgorithm, error) {
	switch DigestAlgorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", AlgorithmSHA256:
		return AlgorithmSHA256, nil
	case AlgorithmBLAKE3:
		return AlgorithmBLAKE3, nil
	default:
		return "", fmt.Errorf("unsupported digest algorithm: %s (use: sha256, blake3)", s)
	}
}

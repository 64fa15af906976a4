package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sdejongh/ddupe/pkg/models"
)

// NormalizePath normalizes a path for the current platform
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	if runtime.GOOS == "windows" {
		invalidChars := []string{"<", ">", "\"", "|", "?", "*"}
		for _, char := range invalidChars {
			if strings.Contains(path, char) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// ValidateTarget checks that a scan root exists and is a directory
// Returns the normalized path; a missing root wraps models.ErrTargetNotFound
func ValidateTarget(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	normalized := NormalizePath(path)
	info, err := os.Stat(normalized)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", models.ErrTargetNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to access target path: %w", err)
	}
	if !info.IsDir() {
		return "", &PathError{Path: path, Message: "not a directory"}
	}

	return normalized, nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}

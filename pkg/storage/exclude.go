package storage

import (
	"path"
	"path/filepath"
	"strings"
)

// shouldExclude checks if a relative path matches any exclude pattern
// Patterns support:
//   - Basename globs: *.tmp, .DS_Store
//   - Directory patterns: .git/, node_modules/ (match the directory at any depth)
//   - Path globs: build/*, docs/*.pdf
//   - Any-depth globs: **/cache/*
//
// Directories are passed with a trailing slash so directory patterns can
// prune whole subtrees during traversal
func shouldExclude(relativePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	rel := filepath.ToSlash(relativePath)
	isDir := strings.HasSuffix(rel, "/")
	rel = strings.TrimSuffix(rel, "/")
	base := path.Base(rel)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}

		if dir, ok := strings.CutSuffix(pattern, "/"); ok {
			if isDir && (rel == dir || strings.HasSuffix(rel, "/"+dir) || globMatch(dir, base)) {
				return true
			}
			continue
		}

		if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matchAnyDepth(rel, suffix) {
				return true
			}
			continue
		}

		if strings.Contains(pattern, "/") {
			if globMatch(pattern, rel) {
				return true
			}
			continue
		}

		if globMatch(pattern, base) {
			return true
		}
	}

	return false
}

// matchAnyDepth matches pattern against every trailing sub-path of rel
func matchAnyDepth(rel, pattern string) bool {
	for {
		if globMatch(pattern, rel) {
			return true
		}
		i := strings.Index(rel, "/")
		if i < 0 {
			return false
		}
		rel = rel[i+1:]
	}
}

func globMatch(pattern, name string) bool {
	matched, err := path.Match(pattern, name)
	return err == nil && matched
}

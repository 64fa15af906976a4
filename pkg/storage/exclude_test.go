package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		patterns []string
		want     bool
	}{
		{"NoPatterns", "a.txt", nil, false},
		{"BasenameGlob", "dir/x.tmp", []string{"*.tmp"}, true},
		{"BasenameNoMatch", "dir/x.txt", []string{"*.tmp"}, false},
		{"DirPatternTopLevel", ".git/", []string{".git/"}, true},
		{"DirPatternNested", "a/b/node_modules/", []string{"node_modules/"}, true},
		{"DirPatternIgnoresFiles", "node_modules", []string{"node_modules/"}, false},
		{"PathGlob", "build/out.bin", []string{"build/*"}, true},
		{"PathGlobOtherDir", "src/out.bin", []string{"build/*"}, false},
		{"AnyDepth", "a/b/cache/item", []string{"**/cache/*"}, true},
		{"AnyDepthTopLevel", "cache/item", []string{"**/cache/*"}, true},
		{"BlankPattern", "a.txt", []string{"  "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldExclude(tt.path, tt.patterns))
		})
	}
}

package output

import "fmt"

const (
	kib = 1024
	mib = kib * 1024
	gib = mib * 1024
)

// FormatBytes renders a byte count as "N B" or with a KB, MB or GB suffix
// Units are powers of 1024 and shown with two decimals
func FormatBytes(bytes int64) string {
	b := float64(bytes)
	switch {
	case bytes >= gib:
		return fmt.Sprintf("%.2f GB", b/gib)
	case bytes >= mib:
		return fmt.Sprintf("%.2f MB", b/mib)
	case bytes >= kib:
		return fmt.Sprintf("%.2f KB", b/kib)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatDuration formats duration in human-readable format
func formatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	s := int(seconds)
	if s < 3600 {
		return fmt.Sprintf("%dm%ds", s/60, s%60)
	}
	return fmt.Sprintf("%dh%dm", s/3600, (s%3600)/60)
}

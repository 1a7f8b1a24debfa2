package crawl

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/devdocs"
)

// ComputeHash returns the xxhash of content as lowercase hex.
func ComputeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatResult renders a one-line run summary.
func FormatResult(r *devdocs.RunResult) string {
	var b strings.Builder
	name := r.Doc
	if r.Version != "" {
		name += " " + r.Version
	}
	fmt.Fprintf(&b, "%s: %d pages (%s)", name, r.Stored, FormatBytes(r.Bytes))
	if n := r.Failed(); n > 0 {
		fmt.Fprintf(&b, ", %d failed", n)
	}
	if r.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", r.Skipped)
	}
	if r.Redirected > 0 {
		fmt.Fprintf(&b, ", %d redirected", r.Redirected)
	}
	fmt.Fprintf(&b, " in %s", r.Duration.Round(1e6))
	return b.String()
}

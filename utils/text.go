package utils

import "strings"

// ContainsIgnoreCase reports whether substr is within s, ignoring case.
// An empty substr always matches.
func ContainsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// FormatURL makes a stored link clickable: empty becomes "#" and a missing
// scheme gets https://.
func FormatURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return "#"
	}
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return link
	}
	return "https://" + link
}

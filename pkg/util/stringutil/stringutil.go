// Package stringutil provides small string helpers shared across the
// dispatcher's config and CLI layers.
package stringutil

// CoalesceString returns the first non-empty string from the provided
// strings. Used to resolve a setting through its override chain (flag, env,
// file, default) without repeating the same chain of if-checks everywhere.
func CoalesceString(strs ...string) string {
	for _, str := range strs {
		if str != "" {
			return str
		}
	}
	return ""
}

// TruncateString truncates a string to maxLen, adding an ellipsis if
// truncated. Nothing in this module calls it at present.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

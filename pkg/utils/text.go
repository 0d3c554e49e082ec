package utils

// Truncate caps s at max runes, marking the cut with "...". Product names
// carry accented text, so the cut counts runes rather than bytes. A max of
// zero or less disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

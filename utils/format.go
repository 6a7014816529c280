// utils/format.go - Presentation helpers
package utils

import "fmt"

// FormatDuration renders whole seconds as h:mm:ss for display next to
// the duration statistics. Zero or missing durations render as the
// fixed placeholder "00:00:00".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "00:00:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

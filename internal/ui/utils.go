package ui

import (
	"fmt"
	"time"
)

func formatDuration(seconds int64) string {
	hrs := seconds / 3600
	seconds %= 3600
	mins := seconds / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hrs, mins, secs)
}

func formatTime(t time.Time) string {
	return t.Format("15:04:05")
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 3 {
		if len(runes) > maxLen {
			return string(runes[:maxLen])
		}
		return s
	}
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

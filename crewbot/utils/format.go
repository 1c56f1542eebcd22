package utils

import (
	"fmt"
	"strings"
)

func Ptr[T any](v T) *T {
	return &v
}

// FormatMinutes renders a minute count as "Xh Ym".
func FormatMinutes(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// RankLabel returns a medal for the top three ranks and "N." otherwise.
func RankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

// Truncate cuts s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// BulletList joins lines as "• line", or returns empty when there are none.
func BulletList(lines []string, empty string) string {
	if len(lines) == 0 {
		return empty
	}
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(l)
	}
	return b.String()
}

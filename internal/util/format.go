package util

import (
	"fmt"
	"time"
)

// FormatVirtualTime renders virtual seconds since timeline start as a
// compact offset, e.g. "+2d 03:15:00".
func FormatVirtualTime(seconds float64) string {
	total := int64(seconds)
	days := total / 86400
	rem := total % 86400
	h := rem / 3600
	m := (rem % 3600) / 60
	s := rem % 60

	if days > 0 {
		return fmt.Sprintf("+%dd %02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("+%02d:%02d:%02d", h, m, s)
}

// FormatDuration renders a duration as "2h 5m" / "12m".
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatPercent renders a 0-100 value with one decimal.
func FormatPercent(p float64) string {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatSpeed renders the speed factor, e.g. "3600x".
func FormatSpeed(speed float64) string {
	if speed == float64(int64(speed)) {
		return fmt.Sprintf("%dx", int64(speed))
	}
	return fmt.Sprintf("%.1fx", speed)
}

// FormatTimestamp renders an absolute unix time in UTC.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04")
}

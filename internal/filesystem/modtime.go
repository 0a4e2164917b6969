package filesystem

import "time"

// DisplayLayout renders modification times as "2024-04-25, 01:05:12 PM".
const DisplayLayout = "2006-01-02, 03:04:05 PM"

// Stamp converts a modification time into float seconds since the epoch.
// Equal times always produce equal stamps, and the value survives a JSON
// round trip unchanged.
func Stamp(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// DisplayTime formats t in local time using DisplayLayout.
func DisplayTime(t time.Time) string {
	return t.Local().Format(DisplayLayout)
}

package state

import (
	"fmt"
	"time"
)

// UnknownDowntime is reported when an endpoint recovers without a recorded
// down transition.
const UnknownDowntime = "unknown"

// FormatDowntime renders d in whole seconds, dropping the seconds part once
// it reaches an hour.
func FormatDowntime(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%d seconds", secs)
	case secs < 3600:
		return fmt.Sprintf("%d minutes, %d seconds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%d hours, %d minutes", secs/3600, (secs%3600)/60)
	}
}

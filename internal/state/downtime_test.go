package state

import (
	"testing"
	"time"
)

func TestFormatDowntime(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 seconds"},
		{45 * time.Second, "45 seconds"},
		{59*time.Second + 999*time.Millisecond, "59 seconds"},
		{60 * time.Second, "1 minutes, 0 seconds"},
		{125 * time.Second, "2 minutes, 5 seconds"},
		{3599 * time.Second, "59 minutes, 59 seconds"},
		{3600 * time.Second, "1 hours, 0 minutes"},
		{7265 * time.Second, "2 hours, 1 minutes"},
		{-5 * time.Second, "0 seconds"},
	}
	for _, c := range cases {
		if got := FormatDowntime(c.in); got != c.want {
			t.Fatalf("FormatDowntime(%v)=%q want %q", c.in, got, c.want)
		}
	}
}

package mstime

import (
	"testing"
	"time"
)

func TestUnixMilliRoundTrip(t *testing.T) {
	for _, ms := range []int64{0, 1, 999, 1000, 1_600_000_000_123} {
		if got := TimeToUnixMilli(UnixMilliToTime(ms)); got != ms {
			t.Fatalf("TestUnixMilliRoundTrip: %d came back as %d", ms, got)
		}
	}

	now := Now()
	if now.Nanosecond()%int(time.Millisecond) != 0 {
		t.Fatalf("TestUnixMilliRoundTrip: Now has sub-millisecond precision: %s", now)
	}
}

// Package mstime handles the millisecond precision unix timestamps the
// node stores, such as block arrival times.
package mstime

import "time"

const (
	nanosecondsInMillisecond = int64(time.Millisecond / time.Nanosecond)
	millisecondsInSecond     = int64(time.Second / time.Millisecond)
)

// Now returns the current local time, with precision of one millisecond.
func Now() time.Time {
	return ReduceToMillisecondPrecision(time.Now())
}

// NowUnixMilli returns the current time as unix milliseconds.
func NowUnixMilli() int64 {
	return TimeToUnixMilli(time.Now())
}

// UnixMilliToTime returns the local time of the given unix milliseconds.
func UnixMilliToTime(ms int64) time.Time {
	seconds := ms / millisecondsInSecond
	nanoseconds := (ms - seconds*millisecondsInSecond) * nanosecondsInMillisecond
	return time.Unix(seconds, nanoseconds)
}

// TimeToUnixMilli returns t as unix milliseconds.
func TimeToUnixMilli(t time.Time) int64 {
	return t.UnixNano() / nanosecondsInMillisecond
}

// ReduceToMillisecondPrecision truncates t to whole milliseconds.
func ReduceToMillisecondPrecision(t time.Time) time.Time {
	nanoseconds := int64(t.Nanosecond())
	millisecondPrecisionNanoSeconds := (nanoseconds / nanosecondsInMillisecond) * nanosecondsInMillisecond
	return time.Unix(t.Unix(), millisecondPrecisionNanoSeconds)
}

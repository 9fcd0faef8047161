package units

import (
	"fmt"
	"math"
	"time"
)

// SecondsPerHour converts Time's canonical seconds into hours.
const SecondsPerHour = 3600.0

// Time is an elapsed duration in seconds.
type Time struct {
	seconds float64
}

// TimeFromSeconds returns a Time of s seconds.
func TimeFromSeconds(s float64) Time { return Time{seconds: s} }

// TimeFromDuration converts a time.Duration.
func TimeFromDuration(d time.Duration) Time { return Time{seconds: d.Seconds()} }

// Seconds returns the canonical magnitude.
func (t Time) Seconds() float64 { return t.seconds }

// Hours is derived on read; the stored value stays in seconds.
func (t Time) Hours() float64 { return t.seconds / SecondsPerHour }

// Duration converts back to a time.Duration, truncating below a nanosecond.
// Magnitudes beyond about ±292 years saturate at the Duration limits; NaN
// maps to 0.
func (t Time) Duration() time.Duration {
	ns := t.seconds * float64(time.Second)
	switch {
	case math.IsNaN(ns):
		return 0
	case ns >= math.MaxInt64:
		return math.MaxInt64
	case ns <= math.MinInt64:
		return math.MinInt64
	}
	return time.Duration(ns)
}

func (t Time) String() string { return fmt.Sprintf("%gs", t.seconds) }

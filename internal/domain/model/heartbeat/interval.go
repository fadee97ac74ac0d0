package heartbeat

import (
	"fmt"
	"math"
	"time"
)

// ValidateInterval rejects negative intervals. Zero means "unset".
func ValidateInterval(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: %s is negative", ErrInvalidInterval, d)
	}
	return nil
}

// maxMillis is the largest millisecond count a time.Duration can hold
const maxMillis = float64(math.MaxInt64) / float64(time.Millisecond)

// IntervalFromMillis converts a millisecond count coming from configuration
// into a duration, rejecting NaN, infinite, negative and out-of-range values.
func IntervalFromMillis(ms float64) (time.Duration, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0, fmt.Errorf("%w: %v is not a number", ErrInvalidInterval, ms)
	}
	if ms < 0 {
		return 0, fmt.Errorf("%w: %vms is negative", ErrInvalidInterval, ms)
	}
	if ms >= maxMillis {
		return 0, fmt.Errorf("%w: %vms is out of range", ErrInvalidInterval, ms)
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}

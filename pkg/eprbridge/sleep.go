package eprbridge

import "time"

// Sleeper blocks the calling goroutine for d
type Sleeper func(d time.Duration)

// SleepFull blocks until d has elapsed on the monotonic clock. A wakeup that
// arrives early sleeps again for the remainder, so the delay is never
// shortened.
func SleepFull(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := time.Now().Add(d)
	for remaining := d; remaining > 0; remaining = time.Until(deadline) {
		time.Sleep(remaining)
	}
}

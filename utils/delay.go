package utils

import "time"

// Pause sleeps for the fixed inter-page delay. A zero or negative duration
// returns immediately so tests can run the pipeline without waiting.
func Pause(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

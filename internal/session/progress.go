package session

import "time"

// MinProgress is the floor of the countdown progress bar.
const MinProgress = 15.0

// Progress returns the share of the interview time still remaining as a
// percentage, never below MinProgress.
func Progress(remaining, total time.Duration) float64 {
	if total <= 0 {
		return MinProgress
	}
	pct := float64(remaining) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < MinProgress {
		return MinProgress
	}
	return pct
}

package common

import "time"

// Analysis is the verdict on one request: whether it is allowed, and
// if not, the minimal time to wait until it would be
type Analysis struct {
	Allowed bool
	Wait    time.Duration
}

// A restriction means that only the specified number of requests
// are allowed for a specific time duration
type Restriction struct {
	Requests int
	Duration time.Duration
}

// Analyse the recent history of requests and find out
// if a new request at the current time should be allowed or not
func (rest *Restriction) Analyse(history []time.Time, now time.Time) Analysis {

	// Count the requests that fall inside my duration.
	// Start counting from the end.
	// If one request is too old, the rest will be too
	count := 0
	var oldest time.Time
	for i := len(history) - 1; i >= 0; i-- {
		if now.Sub(history[i]) > rest.Duration {
			break
		}
		count++
		oldest = history[i]
	}

	if count >= rest.Requests {
		return Analysis{false, oldest.Add(rest.Duration).Sub(now)}
	}
	return Analysis{true, 0}
}

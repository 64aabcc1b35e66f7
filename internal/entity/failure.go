package entity

import "time"

// ItemFailure records why one history URL could not be processed, so failed
// items can be inspected and re-submitted.
type ItemFailure struct {
	URL         string    `json:"url"`
	Stage       string    `json:"stage"`
	Reason      string    `json:"reason"`
	Attempts    int       `json:"attempts"`
	LastAttempt time.Time `json:"last_attempt"`
}

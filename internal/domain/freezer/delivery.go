package freezer

// Tier is one stage of the escalation ladder.
type Tier int

const (
	// TierPrimary delivers the original message to the primary recipients.
	TierPrimary Tier = iota
	// TierBackup reports a primary failure to the backup recipients.
	TierBackup
	// TierRetry waits and restarts the ladder from TierPrimary.
	TierRetry
)

// String returns the tier name used in logs and metrics.
func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierBackup:
		return "backup"
	case TierRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Attempt records a single delivery try. It lives only for one send sequence.
type Attempt struct {
	Tier       Tier
	Recipients []string
	Err        error
}

// Succeeded reports whether the attempt was delivered.
func (a Attempt) Succeeded() bool {
	return a.Err == nil
}

// Outcome is "success" or "failure".
func (a Attempt) Outcome() string {
	if a.Err == nil {
		return "success"
	}

	return "failure"
}

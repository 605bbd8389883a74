package freezer

// Level is the sampled level of the monitored contact.
type Level bool

const (
	// Low means the contact is closed: normal condition.
	Low Level = false
	// High means the contact is open: alarm condition.
	High Level = true
)

// String returns "HIGH" or "LOW".
func (l Level) String() string {
	if l {
		return "HIGH"
	}

	return "LOW"
}

// Status maps the level to the notification it calls for.
func (l Level) Status() Status {
	if l {
		return StatusAlert
	}

	return StatusClear
}

// Status is the kind of notification produced by a transition.
// The numeric values match the sensor level: 1 for a problem, 0 for its resolution.
type Status int

const (
	// StatusClear reports that a previously detected problem appears resolved.
	StatusClear Status = 0
	// StatusAlert reports a potential problem.
	StatusAlert Status = 1
)

// String returns "ALERT" or "CLEAR".
func (s Status) String() string {
	if s == StatusAlert {
		return "ALERT"
	}

	return "CLEAR"
}

// Noun is the human name of the message a status produces.
func (s Status) Noun() string {
	if s == StatusAlert {
		return "alert"
	}

	return "all-clear"
}

package freezer

import "time"

// TimestampLayout renders event times in the asctime form used in messages.
const TimestampLayout = time.ANSIC

// Entry is one directory record describing a monitored device.
type Entry struct {
	// DeviceKey selects the entry; it is the IPv4 address of the monitoring host.
	DeviceKey string
	// Location is free text naming where the freezer is.
	Location string
	// Recipients are the primary addresses in file order.
	Recipients []string
	// Backup are the addresses told when delivery to Recipients fails.
	Backup []string
	// Sender is the From address.
	Sender string
	// ReplyTo is the Reply-To address.
	ReplyTo string
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}

	cloned := *e
	cloned.Recipients = append([]string(nil), e.Recipients...)
	cloned.Backup = append([]string(nil), e.Backup...)

	return &cloned
}

// Intent is created once per transition and never modified afterwards.
type Intent struct {
	// Status is ALERT or CLEAR.
	Status Status
	// DeviceKey identifies the host that observed the transition.
	DeviceKey string
	// Timestamp is the wall-clock time the handler started.
	Timestamp time.Time
}

// FormattedTime returns the event time as it appears in messages.
func (i Intent) FormattedTime() string {
	return i.Timestamp.Format(TimestampLayout)
}

package stasis

import "time"

// Date holds a single instant.
type Date struct {
	header
	t time.Time
}

// NewDate creates a date at t.
func NewDate(t time.Time) *Date {
	return CreateDate(nil, t)
}

// CreateDate creates a date with a prototype.
func CreateDate(proto *Object, t time.Time) *Date {
	return &Date{header: header{proto: proto}, t: t}
}

func (d *Date) kind() Kind {
	if d == nil {
		return KindScalar
	}
	return KindDate
}

func (d *Date) backing() tagged { return d }

// Time returns the instant.
func (d *Date) Time() time.Time {
	return d.t
}

// UnixMilli returns the instant in milliseconds since the epoch.
func (d *Date) UnixMilli() int64 {
	return d.t.UnixMilli()
}

// SetTime moves the date to t.
func (d *Date) SetTime(t time.Time) error {
	if d.frozen {
		return newMutationError(ErrReadOnly, KindDate, "setTime", "")
	}
	d.t = t
	return nil
}

// Add moves the date by dur.
func (d *Date) Add(dur time.Duration) error {
	if d.frozen {
		return newMutationError(ErrReadOnly, KindDate, "add", "")
	}
	d.t = d.t.Add(dur)
	return nil
}

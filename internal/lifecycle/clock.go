package lifecycle

import "time"

// Clock supplies the current instant. Every "today" and "overdue" comparison
// in the engine goes through a Clock so tests can pin the date; nothing in
// this package calls time.Now directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a Clock reading the wall clock in the given local
// timezone.
func NewSystemClock(loc *time.Location) Clock {
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always reports T. Test use.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

package clock

import "time"

// Clock abstracts the current time so services can be driven from tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// New returns the system clock.
func New() Clock {
	return realClock{}
}

// Fixed always reports the same instant until Set is called.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time {
	return f.T
}

func (f *Fixed) Set(t time.Time) {
	f.T = t
}

package clock

import "time"

// Clock abstracts time.Now so timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewReal() Clock { return realClock{} }

// Fixed always returns the time it was created with, optionally advanced.
type Fixed struct {
	t time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{t: t} }

func (f *Fixed) Now() time.Time { return f.t }

// Advance moves the fixed time forward by d.
func (f *Fixed) Advance(d time.Duration) { f.t = f.t.Add(d) }

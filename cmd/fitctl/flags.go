package main

import (
	"fmt"
	"strconv"
	"time"
)

// secondsValue is a duration flag that also takes a bare number of seconds ("2" or "1.5").
type secondsValue struct {
	d *time.Duration
}

func newSecondsValue(d *time.Duration, def time.Duration) *secondsValue {
	*d = def
	return &secondsValue{d: d}
}

func (v *secondsValue) Set(s string) error {
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		*v.d = d
		return nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 {
		return fmt.Errorf("invalid delay %q: use seconds (2) or a duration (500ms, 2s)", s)
	}
	*v.d = time.Duration(secs * float64(time.Second))
	return nil
}

func (v *secondsValue) String() string { return v.d.String() }

func (v *secondsValue) Type() string { return "duration" }

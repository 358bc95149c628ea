package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Clock is a wall-clock time of day
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// Accepted input layouts, tried in order
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
	"3:04:05 PM",
}

// NewClock builds a clock value, carrying minute overflow into the hour
func NewClock(hour, minute int) Clock {
	total := hour*60 + minute
	return Clock{Hour: total / 60, Minute: total % 60}
}

// ParseClock accepts 24-hour (HH:MM[:SS]) and 12-hour (h:mm AM) forms
func ParseClock(s string) (Clock, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return Clock{}, fmt.Errorf("invalid time %q: expected HH:MM, HH:MM:SS or h:mm AM/PM", s)
}

// MustParseClock is ParseClock for literals in tests and tables
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) IsZero() bool {
	return c == Clock{}
}

// Minutes returns minutes since midnight, ignoring seconds
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Add returns the clock advanced by the given number of minutes
func (c Clock) Add(minutes int) Clock {
	next := NewClock(c.Hour, c.Minute+minutes)
	next.Second = c.Second
	return next
}

func (c Clock) Compare(other Clock) int {
	a := c.Minutes()*60 + c.Second
	b := other.Minutes()*60 + other.Second
	return sign(a - b)
}

func (c Clock) Before(other Clock) bool { return c.Compare(other) < 0 }

// Wire returns the HH:MM:SS form used by the availability API
func (c Clock) Wire() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Display returns the 12-hour form, e.g. "8:00 AM" or "12:15 PM"
func (c Clock) Display() string {
	suffix := "AM"
	if c.Hour >= 12 {
		suffix = "PM"
	}
	hour := c.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.Minute, suffix)
}

func (c Clock) String() string {
	return c.Display()
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Wire())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	if s == nil || *s == "" {
		*c = Clock{}
		return nil
	}
	parsed, err := ParseClock(*s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

package rest

import (
	"fmt"
	"strings"
	"time"
)

// The server speaks two date dialects: request bodies carry
// "yyyy-MM-dd HH:mm:ss.SSSS" without a timezone, responses carry
// RFC-1123-like HTTP dates with full month names. Both must be reproduced
// byte for byte, independent of the device locale.
const (
	OutboundTimeLayout = "2006-01-02 15:04:05.0000"
	InboundTimeLayout  = "Mon, 02 January 2006 15:04:05 MST"
	DayLayout          = "2006-01-02"
	DisplayDayLayout   = "02.01.2006"
)

// Time wraps time.Time with the server's asymmetric JSON representation:
// it marshals in the outbound request format and unmarshals from the
// inbound response format.
type Time struct {
	time.Time
}

func NewTime(t time.Time) Time {
	return Time{Time: t}
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(OutboundTimeLayout) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(InboundTimeLayout, s)
	if err != nil {
		return fmt.Errorf("parse server date %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// FormatDay renders a time as the day-granularity wire format.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}

// DisplayDayToWire converts a form/display date (dd.MM.yyyy) to the wire
// day format (yyyy-MM-dd). Forms collect dates in display format; nothing
// in that format may reach the network layer.
func DisplayDayToWire(s string) (string, error) {
	t, err := time.Parse(DisplayDayLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse display date %q: %w", s, err)
	}
	return t.Format(DayLayout), nil
}

// WireDayToDisplay converts a wire day (yyyy-MM-dd) to display form.
func WireDayToDisplay(s string) (string, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse wire date %q: %w", s, err)
	}
	return t.Format(DisplayDayLayout), nil
}

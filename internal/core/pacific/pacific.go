// Package pacific maps instants onto civil dates in the fleet's home zone
// (America/Los_Angeles) and derives inclusive date ranges for the
// dashboard time range tokens.
//
// All conversions go through the tz database so the PST/PDT offset is
// whatever the zone says for that instant, never a hardcoded constant
package pacific

import (
	"strings"
	"time"

	// embed the tz database so containers without /usr/share/zoneinfo still resolve the zone
	_ "time/tzdata"

	perr "fleetdash/internal/platform/errors"
)

// ZoneName is the IANA name of the default target zone
const ZoneName = "America/Los_Angeles"

// DateLayout is the Go layout for a Date
const DateLayout = "2006-01-02"

// Date is a civil day in the target zone formatted YYYY-MM-DD
type Date string

// String returns the raw YYYY-MM-DD value
func (d Date) String() string { return string(d) }

// Time returns midnight UTC of the civil day, useful for calendar arithmetic
// that must not see DST
func (d Date) Time() (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, string(d), time.UTC)
	if err != nil {
		return time.Time{}, perr.Wrapf(ErrInvalidInstant, perr.ErrorCodeInvalidArgument, "bad date %q", string(d))
	}
	return t, nil
}

// AddDays shifts the civil day by n days
// invalid dates are returned unchanged
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return Date(t.AddDate(0, 0, n).Format(DateLayout))
}

// ParseDate validates a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return "", perr.Wrapf(ErrInvalidInstant, perr.ErrorCodeInvalidArgument, "bad date %q, want YYYY-MM-DD", s)
	}
	// round trip guards against inputs the parser tolerates but we do not
	if t.Format(DateLayout) != s {
		return "", perr.Wrapf(ErrInvalidInstant, perr.ErrorCodeInvalidArgument, "bad date %q, want YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// Parts are the wall clock components of an instant in the target zone
type Parts struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
	// Offset is the zone offset in effect for the instant, in seconds east of UTC
	Offset int
	// Abbrev is the zone abbreviation, PST or PDT for the default zone
	Abbrev string
}

// Date returns the civil day of the parts
func (p Parts) Date() Date {
	return Date(time.Date(p.Year, p.Month, p.Day, 0, 0, 0, 0, time.UTC).Format(DateLayout))
}

// Normalizer converts instants to zone dates and resolves range tokens
// it holds no mutable state and is safe for concurrent use
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithClock replaces the clock used when no reference instant is given
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithLocation replaces the target zone
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.loc = loc
		}
	}
}

// LoadLocation resolves an IANA zone name, empty means the default zone
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = ZoneName
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "unknown timezone %q", name)
	}
	return loc, nil
}

var home = mustLoad(ZoneName)

func mustLoad(name string) *time.Location {
	loc, err := LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// New builds a Normalizer for America/Los_Angeles using the real clock
func New(opts ...Option) *Normalizer {
	n := &Normalizer{loc: home, now: time.Now}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Location returns the target zone
func (n *Normalizer) Location() *time.Location { return n.loc }

// Now returns the clock's current instant
func (n *Normalizer) Now() time.Time { return n.now() }

// Today returns the zone date of the current instant
func (n *Normalizer) Today() Date { return n.DateOf(n.now()) }

// DateOf returns the zone date of t
func (n *Normalizer) DateOf(t time.Time) Date {
	return Date(t.In(n.loc).Format(DateLayout))
}

// PartsOf returns the wall clock components of t in the zone
func (n *Normalizer) PartsOf(t time.Time) Parts {
	z := t.In(n.loc)
	abbrev, off := z.Zone()
	return Parts{
		Year:   z.Year(),
		Month:  z.Month(),
		Day:    z.Day(),
		Hour:   z.Hour(),
		Minute: z.Minute(),
		Second: z.Second(),
		Offset: off,
		Abbrev: abbrev,
	}
}

// DateOfString parses an instant string and returns its zone date
func (n *Normalizer) DateOfString(s string) (Date, error) {
	t, err := ParseInstant(s)
	if err != nil {
		return "", err
	}
	return n.DateOf(t), nil
}

// StartOf returns the first instant of the civil day d in the zone
// this is where a warehouse filter on raw timestamps should begin
func (n *Normalizer) StartOf(d Date) (time.Time, error) {
	t, err := d.Time()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, n.loc), nil
}

// instantLayouts are tried in order by ParseInstant
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DateLayout,
}

// ParseInstant reads an RFC 3339 timestamp or a bare YYYY-MM-DD (UTC midnight)
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, perr.Wrapf(ErrInvalidInstant, perr.ErrorCodeInvalidArgument, "empty instant")
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, perr.Wrapf(ErrInvalidInstant, perr.ErrorCodeInvalidArgument, "cannot parse instant %q", s)
}

// package level default for callers that do not need injection

var std = New()

// Default returns the process wide Normalizer
func Default() *Normalizer { return std }

// Today returns the Pacific date of now
func Today() Date { return std.Today() }

// DateOf returns the Pacific date of t
func DateOf(t time.Time) Date { return std.DateOf(t) }

// RangeFor resolves tok with the default Normalizer
func RangeFor(tok Token, opts ...RangeOption) (Range, error) { return std.RangeFor(tok, opts...) }

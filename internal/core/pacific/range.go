package pacific

import (
	"time"

	perr "fleetdash/internal/platform/errors"
)

// Range is an inclusive pair of zone dates with Start <= End
type Range struct {
	Start Date `json:"startDate"`
	End   Date `json:"endDate"`
}

// NewRange validates both bounds and their order
func NewRange(start, end string) (Range, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Range{}, perr.WithField(err, "startDate")
	}
	e, err := ParseDate(end)
	if err != nil {
		return Range{}, perr.WithField(err, "endDate")
	}
	// zero padded dates order lexically
	if s > e {
		return Range{}, perr.WithField(
			perr.Wrapf(ErrInvalidRange, perr.ErrorCodeInvalidArgument, "startDate %s is after endDate %s", s, e),
			"startDate",
		)
	}
	return Range{Start: s, End: e}, nil
}

// Days enumerates every civil day in the range, ascending
func (r Range) Days() []Date {
	start, err := r.Start.Time()
	if err != nil {
		return nil
	}
	end, err := r.End.Time()
	if err != nil || end.Before(start) {
		return nil
	}
	out := make([]Date, 0, int(end.Sub(start)/(24*time.Hour))+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, Date(d.Format(DateLayout)))
	}
	return out
}

// Len returns the number of civil days in the range, 0 when invalid
func (r Range) Len() int {
	start, err := r.Start.Time()
	if err != nil {
		return 0
	}
	end, err := r.End.Time()
	if err != nil || end.Before(start) {
		return 0
	}
	// both are UTC midnights so the difference is a whole number of days
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// Contains reports whether d falls within the range
func (r Range) Contains(d Date) bool { return d >= r.Start && d <= r.End }

// RangeOption tunes a RangeFor call
type RangeOption func(*rangeCfg)

type rangeCfg struct {
	ref        time.Time
	hasRef     bool
	start, end string
	hasCustom  bool
}

// At pins the reference instant instead of reading the clock
func At(ref time.Time) RangeOption {
	return func(c *rangeCfg) {
		c.ref = ref
		c.hasRef = true
	}
}

// Between supplies the caller chosen bounds for the custom token
func Between(start, end string) RangeOption {
	return func(c *rangeCfg) {
		c.start = start
		c.end = end
		c.hasCustom = true
	}
}

// RangeFor resolves tok into an inclusive zone date range
//
// Rolling tokens end today and subtract whole calendar days from the
// reference instant after moving it into the zone, so a DST change inside
// the window never adds or drops a day. Unknown tokens resolve like 24h.
// Only custom can fail
func (n *Normalizer) RangeFor(tok Token, opts ...RangeOption) (Range, error) {
	var c rangeCfg
	for _, o := range opts {
		o(&c)
	}
	ref := c.ref
	if !c.hasRef {
		ref = n.now()
	}
	if !tok.Known() {
		tok = Token24h
	}

	local := ref.In(n.loc)
	today := n.DateOf(local)

	switch tok {
	case TokenCustom:
		if !c.hasCustom || c.start == "" || c.end == "" {
			return Range{}, perr.Wrapf(ErrInvalidRange, perr.ErrorCodeInvalidArgument,
				"custom range requires startDate and endDate")
		}
		return NewRange(c.start, c.end)
	case Token1y:
		return Range{Start: n.DateOf(local.AddDate(-1, 0, 0)), End: today}, nil
	default:
		return Range{Start: n.DateOf(local.AddDate(0, 0, -lookback[tok])), End: today}, nil
	}
}

package main

import (
	"encoding/json"
	"io"
	"time"

	"fleetdash/internal/core/pacific"

	"github.com/spf13/cobra"
)

// globals shared by every subcommand
type globals struct {
	tz  string
	now string
}

// normalizer builds a Normalizer from --tz and --now
func (g *globals) normalizer() (*pacific.Normalizer, error) {
	loc, err := pacific.LoadLocation(g.tz)
	if err != nil {
		return nil, err
	}
	opts := []pacific.Option{pacific.WithLocation(loc)}
	if g.now != "" {
		ref, err := pacific.ParseInstant(g.now)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pacific.WithClock(func() time.Time { return ref }))
	}
	return pacific.New(opts...), nil
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:          "fleetdash-dates",
		Short:        "Zone dates and dashboard ranges",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&g.tz, "tz", pacific.ZoneName, "IANA zone dates are cut in")
	cmd.PersistentFlags().StringVar(&g.now, "now", "", "pin the clock to an RFC 3339 instant")

	cmd.AddCommand(todayCmd(g), dateOfCmd(g), rangeCmd(g))
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func todayCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's date in the zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := g.normalizer()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"timezone": n.Location().String(),
				"today":    n.Today(),
			})
		},
	}
}

type dateOfOut struct {
	Instant string       `json:"instant"`
	Date    pacific.Date `json:"date"`
	Offset  int          `json:"offsetSeconds"`
	Abbrev  string       `json:"abbrev"`
}

func dateOfCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "date-of <instant>",
		Short: "Print the zone date of an RFC 3339 instant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := g.normalizer()
			if err != nil {
				return err
			}
			t, err := pacific.ParseInstant(args[0])
			if err != nil {
				return err
			}
			p := n.PartsOf(t)
			return writeJSON(cmd.OutOrStdout(), dateOfOut{
				Instant: t.UTC().Format(time.RFC3339),
				Date:    p.Date(),
				Offset:  p.Offset,
				Abbrev:  p.Abbrev,
			})
		},
	}
}

type rangeOut struct {
	TimeRange pacific.Token `json:"timeRange"`
	pacific.Range
	Days int `json:"days"`
}

func rangeCmd(g *globals) *cobra.Command {
	var at, start, end string

	cmd := &cobra.Command{
		Use:   "range <token>",
		Short: "Resolve 24h, 7d, 30d, 90d, 1y or custom into an inclusive date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := g.normalizer()
			if err != nil {
				return err
			}
			tok := pacific.ParseToken(args[0])
			opts := []pacific.RangeOption{pacific.Between(start, end)}
			if at != "" {
				ref, err := pacific.ParseInstant(at)
				if err != nil {
					return err
				}
				opts = append(opts, pacific.At(ref))
			}
			r, err := n.RangeFor(tok, opts...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rangeOut{TimeRange: tok, Range: r, Days: r.Len()})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "reference instant instead of now")
	cmd.Flags().StringVar(&start, "start", "", "custom start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "custom end date YYYY-MM-DD")
	return cmd
}

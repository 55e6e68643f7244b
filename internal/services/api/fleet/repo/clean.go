package repo

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// registry rows are typed by people; ids must match what devices report
var labelChains = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)), // zero width and bom
			width.Fold,
		)
	},
}

// cleanLabel repairs utf-8, folds compatibility and fullwidth forms and
// collapses whitespace
func cleanLabel(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	tr := labelChains.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	labelChains.Put(tr)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}

// cleanDevice normalizes a registry row in place
func cleanDevice(d DeviceRow) DeviceRow {
	d.ID = strings.ReplaceAll(cleanLabel(d.ID), " ", "")
	d.Name = cleanLabel(d.Name)
	d.Site = cleanLabel(d.Site)
	if d.Name == "" {
		d.Name = d.ID
	}
	return d
}

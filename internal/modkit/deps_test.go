package modkit

import (
	"testing"
	"time"

	"fleetdash/internal/core/pacific"
)

func TestDeps_Normalizer(t *testing.T) {
	t.Parallel()

	if (Deps{}).Normalizer() != pacific.Default() {
		t.Fatal("zero deps should use the package default normalizer")
	}

	fixed := time.Date(2025, 9, 22, 0, 6, 24, 0, time.UTC)
	d := Deps{Dates: pacific.New(pacific.WithClock(func() time.Time { return fixed }))}
	if got := d.Normalizer().Today(); got != "2025-09-21" {
		t.Fatalf("Today = %s", got)
	}
}

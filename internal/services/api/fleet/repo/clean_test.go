package repo

import "testing"

func TestCleanLabel(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"", ""},
		{"  Oakland   Depot ", "Oakland Depot"},
		{"ｖａｎ－０７", "van-07"},
		{"Van​ 7", "Van 7"},
		{"bad\xffbyte", "badbyte"},
		{"ﬁeld unit", "field unit"},
	}
	for _, c := range cases {
		if got := cleanLabel(c.in); got != c.want {
			t.Errorf("cleanLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanDevice(t *testing.T) {
	t.Parallel()

	got := cleanDevice(DeviceRow{ID: " van 07 ", Name: " ", Site: "Fresno\tHub"})
	if got.ID != "van07" || got.Name != "van07" || got.Site != "Fresno Hub" {
		t.Fatalf("cleanDevice = %+v", got)
	}
}

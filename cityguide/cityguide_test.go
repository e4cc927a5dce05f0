package cityguide

import "testing"

func TestLookupKnownAirport(t *testing.T) {
	g := Lookup("SIN")
	if g.Name != "Singapore Changi" {
		t.Errorf("unexpected name: %q", g.Name)
	}
	if g.MinExploreMinutes <= 0 {
		t.Errorf("curated entries must carry a minimum explorable time, got %d", g.MinExploreMinutes)
	}
	if len(g.Highlights) == 0 {
		t.Error("curated entries must carry highlights")
	}
	if !Known("SIN") {
		t.Error("SIN should be a known airport")
	}
}

func TestLookupUnknownAirportFallsBack(t *testing.T) {
	g := Lookup("ZZZ")
	if Known("ZZZ") {
		t.Fatal("ZZZ should not be a known airport")
	}
	if g.MinExploreMinutes != 180 {
		t.Errorf("fallback minimum should be 180 minutes, got %d", g.MinExploreMinutes)
	}
	if len(g.Highlights) == 0 {
		t.Error("fallback must still carry generic highlights")
	}
	if g.Tip == "" {
		t.Error("fallback must carry the visa tip")
	}
	if g.Name != "ZZZ" {
		t.Errorf("fallback should echo the code as name, got %q", g.Name)
	}
}

func TestLookupNeverEmpty(t *testing.T) {
	for _, code := range []string{"", "dxb", "XYZ1", "LONGCODE"} {
		g := Lookup(code)
		if g.MinExploreMinutes == 0 || g.Tip == "" {
			t.Errorf("Lookup(%q) returned an incomplete guide: %+v", code, g)
		}
	}
}

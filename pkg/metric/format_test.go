package metric

import "testing"

func TestSizeFormatter(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{512, "512"},
		{999, "999"},
		{1000, "1.0 K"},
		{1_000_000, "1.0 M"},
		{1_000_000_000, "1.0 G"},
		{1_000_000_000_000, "1.0 T"},
		{-1000, "-1.0 K"},
	}
	for _, c := range cases {
		if got := sizeFormatter(c.in); got != c.want {
			t.Errorf("sizeFormatter(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKibiFormatter(t *testing.T) {
	if got := kibiFormatter(1536); got != "1.5 Ki" {
		t.Errorf("kibiFormatter(1536) = %q, want %q", got, "1.5 Ki")
	}
}

func TestDurationFormatter(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0s"},
		{59_000, "59s"},
		{75_000, "1m 15s"},
		{3599_000, "59m 59s"},
		{11_110_000, "3h 5m 10s"},
	}
	for _, c := range cases {
		if got := durationFormatter(c.in); got != c.want {
			t.Errorf("durationFormatter(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRatioFormatterAboveHundredPercent(t *testing.T) {
	got := RatioFormatter(1500)
	if got != ">150.0%" {
		t.Errorf("RatioFormatter(1500) = %q, want \">150.0%%\"", got)
	}
}

func TestRatioFormatterBelowThreshold(t *testing.T) {
	got := RatioFormatter(500)
	if got != "50.0%" {
		t.Errorf("RatioFormatter(500) = %q, want \"50.0%%\"", got)
	}
}

func TestLookupUnitKnownTokens(t *testing.T) {
	for _, unit := range []string{"ki", "mi", "gi", "ti", "k", "m", "g", "t", "sz", "du"} {
		if _, ok := LookupUnit(unit); !ok {
			t.Errorf("LookupUnit(%q) not found", unit)
		}
	}
}

func TestLookupUnitRejectsInventedTokens(t *testing.T) {
	for _, unit := range []string{"raw", "size", "count", "duration"} {
		if _, ok := LookupUnit(unit); ok {
			t.Errorf("LookupUnit(%q) unexpectedly found", unit)
		}
	}
}

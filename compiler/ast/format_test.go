package ast

import "testing"

func TestScanPlaceholdersCountsUnescapedBraces(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"no placeholders here", 0},
		{"{}", 1},
		{"{} and {}", 2},
		{"{{}}", 0},
		{"{{ and }}", 0},
		{"{{literal}} then {}", 1},
		{"{}{}{}", 3},
	}

	for _, c := range cases {
		if got := ScanPlaceholders(c.in); got != c.want {
			t.Errorf("ScanPlaceholders(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

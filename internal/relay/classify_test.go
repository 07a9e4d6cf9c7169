package relay

import (
	"testing"

	"whalerelay/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		value     float64
		threshold float64
		narrative bool
		want      model.Path
	}{
		{"below threshold with credential", 2.0, 50, true, model.PathTemplate},
		{"below threshold without credential", 2.0, 50, false, model.PathTemplate},
		{"above threshold without credential", 505.01, 50, false, model.PathTemplate},
		{"above threshold with credential", 505.01, 50, true, model.PathEnriched},
		{"exactly at threshold", 50, 50, true, model.PathEnriched},
		{"zero value", 0, 50, true, model.PathTemplate},
	}

	for _, tc := range cases {
		if got := Classify(tc.value, tc.threshold, tc.narrative); got != tc.want {
			t.Fatalf("%s: Classify = %q, want %q", tc.name, got, tc.want)
		}
	}
}

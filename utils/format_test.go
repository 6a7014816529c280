package utils

import "testing"

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{-30, "00:00:00"},
		{59, "0:00:59"},
		{210, "0:03:30"},
		{3661, "1:01:01"},
		{7325, "2:02:05"},
	}

	for _, c := range cases {
		if got := FormatDuration(c.seconds); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

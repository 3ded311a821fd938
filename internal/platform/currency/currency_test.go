package currency

import "testing"

func TestFormatCOP(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$ 0"},
		{950, "$ 950"},
		{1300000, "$ 1.300.000"},
		{1231000.4, "$ 1.231.000"},
		{1231000.6, "$ 1.231.001"},
		{-52000, "-$ 52.000"},
	}
	for _, c := range cases {
		if got := FormatCOP(c.in); got != c.want {
			t.Fatalf("FormatCOP(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

package view

import "testing"

func TestWon(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0원"},
		{500, "500원"},
		{1000, "1,000원"},
		{1000000, "1,000,000원"},
		{-548387, "-548,387원"},
	}
	for _, c := range cases {
		if got := Won(c.in); got != c.want {
			t.Errorf("Won(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

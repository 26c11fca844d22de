package relay

import "testing"

func TestOfferPageNav(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		count    int
		wantPrev bool
		wantNext bool
	}{
		{"first page full", 0, 5, false, true},
		{"first page partial", 0, 3, false, false},
		{"second page one offer", 1, 1, true, false},
		{"second page full", 1, 5, true, true},
		{"first page empty", 0, 0, false, false},
		{"later page empty", 2, 0, true, false},
	}
	for _, tc := range cases {
		prev, next := offerPageNav(tc.page, tc.count)
		if prev != tc.wantPrev || next != tc.wantNext {
			t.Errorf("%s: offerPageNav(%d, %d) = prev %v next %v, want prev %v next %v",
				tc.name, tc.page, tc.count, prev, next, tc.wantPrev, tc.wantNext)
		}
	}
}

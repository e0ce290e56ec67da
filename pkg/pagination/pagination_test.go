package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   Params
		want Params
	}{
		{Params{}, Params{Page: 1, Limit: DefaultLimit}},
		{Params{Page: -3, Limit: 500}, Params{Page: 1, Limit: MaxLimit}},
		{Params{Page: 4, Limit: 5}, Params{Page: 4, Limit: 5}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Fatalf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 3, Limit: 12}).Offset(); got != 24 {
		t.Fatalf("expected offset 24, got %d", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
}

func TestNewPageRoundsUp(t *testing.T) {
	page := NewPage(Params{Page: 2, Limit: 12}, 25)
	if page.Pages != 3 || page.Total != 25 || page.Page != 2 || page.Limit != 12 {
		t.Fatalf("unexpected page %+v", page)
	}
	if empty := NewPage(Params{}, 0); empty.Pages != 0 {
		t.Fatalf("expected zero pages for empty result, got %d", empty.Pages)
	}
}

package pagination

import "testing"

func TestParsePage(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"0", 1},
		{"-3", 1},
		{"abc", 1},
		{"1", 1},
		{"7", 7},
	}
	for _, tc := range cases {
		if got := ParsePage(tc.raw); got != tc.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 50},     // missing → default
		{"junk", 50}, // unparseable → default
		{"0", 50},    // below range → default
		{"-5", 50},
		{"10", 10},
		{"50", 50},
		{"500", 50}, // above range → cap
	}
	for _, tc := range cases {
		if got := ClampLimit(tc.raw, 50, 50); got != tc.want {
			t.Errorf("ClampLimit(%q, 50, 50) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestNewMeta(t *testing.T) {
	cases := []struct {
		name           string
		page, limit    int
		total          int
		wantTotalPages int
	}{
		{"exact multiple", 1, 10, 20, 2},
		{"remainder rounds up", 1, 10, 21, 3},
		{"fewer than one page", 1, 10, 3, 1},
		{"empty result has zero pages", 1, 10, 0, 0},
		{"single item", 1, 20, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := NewMeta(tc.page, tc.limit, tc.total)
			if meta.TotalPages != tc.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", meta.TotalPages, tc.wantTotalPages)
			}
			if meta.Page != tc.page || meta.Limit != tc.limit || meta.Total != tc.total {
				t.Errorf("meta = %+v", meta)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 10); got != 0 {
		t.Errorf("Offset(1, 10) = %d, want 0", got)
	}
	if got := Offset(3, 20); got != 40 {
		t.Errorf("Offset(3, 20) = %d, want 40", got)
	}
}

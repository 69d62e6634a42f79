package shared

import "testing"

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{3, 50, 3, 50},
		{2, 500, 2, 100},
	}
	for _, tc := range cases {
		page, size := NormalizePagination(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("NormalizePagination(%d,%d) want (%d,%d) got (%d,%d)", tc.page, tc.size, tc.wantPage, tc.wantSize, page, size)
		}
	}
}

func TestPageBounds(t *testing.T) {
	start, end := PageBounds(45, 3, 20)
	if start != 40 || end != 45 {
		t.Fatalf("want [40,45) got [%d,%d)", start, end)
	}
	start, end = PageBounds(5, 4, 20)
	if start != 5 || end != 5 {
		t.Fatalf("out of range page want empty got [%d,%d)", start, end)
	}
	if p := BuildPagination(3, 20, 45); p.TotalPage != 3 || p.Total != 45 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

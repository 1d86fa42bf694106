package pagination

import "testing"

func TestNew_Clamping(t *testing.T) {
	cases := []struct {
		name                   string
		limit, offset          int
		wantLimit, wantOffset  int
	}{
		{"defaults", 0, 0, DefaultLimit, 0},
		{"negative limit", -5, 0, DefaultLimit, 0},
		{"capped limit", 500, 0, MaxLimit, 0},
		{"negative offset", 10, -3, 10, 0},
		{"passthrough", 50, 100, 50, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(tc.limit, tc.offset)
			if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
				t.Errorf("New(%d, %d) = %+v, want limit=%d offset=%d",
					tc.limit, tc.offset, p, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestParams_Paging(t *testing.T) {
	p := New(20, 40)
	if !p.HasNext(100) {
		t.Error("expected next page at offset 40 of 100")
	}
	if p.HasNext(60) {
		t.Error("expected no next page at offset 40 of 60")
	}
	if !p.HasPrevious() {
		t.Error("expected a previous page at offset 40")
	}
	if p.NextOffset() != 60 {
		t.Errorf("NextOffset = %d, want 60", p.NextOffset())
	}
	if p.PreviousOffset() != 20 {
		t.Errorf("PreviousOffset = %d, want 20", p.PreviousOffset())
	}

	first := New(20, 10)
	if first.PreviousOffset() != 0 {
		t.Errorf("PreviousOffset should floor at 0, got %d", first.PreviousOffset())
	}
}

func TestNewResponse(t *testing.T) {
	p := New(20, 0)
	resp := NewResponse([]int{1, 2, 3}, 50, p)
	if !resp.HasMore {
		t.Error("expected has_more with 50 total and a 20-row page")
	}
	if resp.Total != 50 || resp.Limit != 20 || resp.Offset != 0 {
		t.Errorf("unexpected metadata: %+v", resp)
	}
}

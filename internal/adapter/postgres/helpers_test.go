package postgres

import "testing"

func TestNormalizeRange(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  uint64
		wantOffset uint64
	}{
		{name: "zero limit gets default", limit: 0, offset: 0, wantLimit: 50, wantOffset: 0},
		{name: "negative limit gets default", limit: -5, offset: 0, wantLimit: 50, wantOffset: 0},
		{name: "limit clamped to max", limit: 1000, offset: 0, wantLimit: 200, wantOffset: 0},
		{name: "negative offset clamped", limit: 10, offset: -3, wantLimit: 10, wantOffset: 0},
		{name: "values in range pass through", limit: 25, offset: 50, wantLimit: 25, wantOffset: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := NormalizeRange(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("NormalizeRange(%d, %d) = (%d, %d), want (%d, %d)",
					tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestNullIfEmpty(t *testing.T) {
	if got := NullIfEmpty(""); got != nil {
		t.Errorf("NullIfEmpty(\"\") = %v, want nil", got)
	}
	if got := NullIfEmpty("x"); got != "x" {
		t.Errorf("NullIfEmpty(\"x\") = %v, want \"x\"", got)
	}
}

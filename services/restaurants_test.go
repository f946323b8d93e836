package services

import "testing"

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{"defaults", 0, 0, 24, 0},
		{"negative limit", -5, 0, 24, 0},
		{"oversized limit", 500, 0, 24, 0},
		{"negative offset", 24, -10, 24, 0},
		{"both bad", -1, -1, 24, 0},
		{"valid passthrough", 50, 100, 50, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := pageBounds(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("pageBounds(%d, %d) = (%d, %d), want (%d, %d)",
					tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

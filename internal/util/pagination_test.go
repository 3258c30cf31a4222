package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name                  string
		page, size            int
		wantOffset, wantLimit int
	}{
		{name: "first page", page: 1, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "third page", page: 3, size: 5, wantOffset: 10, wantLimit: 5},
		{name: "page below one", page: 0, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "size too large", page: 2, size: 500, wantOffset: DefaultPageSize, wantLimit: DefaultPageSize},
		{name: "size zero", page: 1, size: 0, wantOffset: 0, wantLimit: DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestMeta(t *testing.T) {
	m := Meta(2, 10, 10, 25)

	assert.Equal(t, int64(3), m["total_pages"])
	assert.Equal(t, true, m["has_prev"])
	assert.Equal(t, true, m["has_next"])

	last := Meta(3, 20, 10, 25)
	assert.Equal(t, false, last["has_next"])
}

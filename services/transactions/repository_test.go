package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		limit    int
		expected int
	}{
		{"partial last page", 95, 10, 10},
		{"exact division", 100, 10, 10},
		{"one extra record", 101, 10, 11},
		{"empty collection", 0, 10, 0},
		{"single record", 1, 10, 1},
		{"limit one", 7, 1, 7},
		{"invalid limit", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pageCount(tt.total, tt.limit))
		})
	}
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"0", 0},
		{"150", 150},
		{"  20", 20},
		{"3.20", 3.2},
		{".5", 0.5},
		{"4.", 4},
		{"-12", -12},
		{"+7", 7},
		{"12abc", 12},
		{"1,000", 1},
		{"$100", 0},
		{"1e3", 1000},
		{"1e", 1},
		{"1e999", 0},
		{"Infinity", 0},
		{"NaN", 0},
		{"-", 0},
		{".", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, ParseNumber(tt.text), 1e-12)
		})
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.9", FormatNumber(1.90))
	assert.Equal(t, "2.12", FormatNumber(2.12))
	assert.Equal(t, "0.005", FormatNumber(0.005))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "20", FormatNumber(20))
}

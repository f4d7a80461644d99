package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00:00", 0},
		{"09:30:00", 570},
		{"10:00", 600},
		{"23:59:59", 23*60 + 59},
	}
	for _, c := range cases {
		got, err := parseClock(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseClockRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "10", "25:00:00", "10:75:00", "ten:30", "10:30:00:00"} {
		_, err := parseClock(in)
		assert.Error(t, err, in)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", formatClock(0))
	assert.Equal(t, "09:30:00", formatClock(570))
	assert.Equal(t, "14:05:00", formatClock(14*60+5))
}

package days

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBetween(t *testing.T) {
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{name: "two full days", start: base, end: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), want: 2},
		{name: "one millisecond over a day", start: base, end: base.Add(Day + time.Millisecond), want: 2},
		{name: "less than a day", start: base, end: base.Add(3 * time.Hour), want: 1},
		{name: "exactly one day", start: base, end: base.Add(Day), want: 1},
		{name: "equal dates", start: base, end: base, want: 0},
		{name: "end before start", start: base, end: base.Add(-Day), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Between(tt.start, tt.end))
		})
	}
}

func TestPrice(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(200000), Price(start, end, 100000))
	assert.Equal(t, int64(300000), Price(start, end.Add(time.Minute), 100000))
}

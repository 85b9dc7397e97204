package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundCents(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"already cents", 12.34, 12.34},
		{"rounds down", 33.333333, 33.33},
		{"rounds up", 66.666666, 66.67},
		{"half goes up", 1.005, 1.01},
		{"negative half goes up", -2.345, -2.34},
		{"negative rounds away", -33.336, -33.34},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundCents(tt.in))
		})
	}
}

func TestRound_FourPlaces(t *testing.T) {
	assert.Equal(t, 366.3004, Round(100/0.273, 4))
	assert.Equal(t, 396.8254, Round(100/0.252, 4))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(0))
	assert.True(t, IsZero(0.009))
	assert.True(t, IsZero(-0.009))
	assert.False(t, IsZero(0.01))
	assert.False(t, IsZero(-0.5))
}

func TestRound_NonFinitePassesThrough(t *testing.T) {
	assert.True(t, math.IsInf(RoundCents(math.Inf(1)), 1))
	assert.True(t, math.IsInf(Round(math.Inf(-1), 4), -1))
	assert.True(t, math.IsNaN(RoundCents(math.NaN())))
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(0.01))
	assert.True(t, InRange(MaxAmount))
	assert.False(t, InRange(0))
	assert.False(t, InRange(-1))
	assert.False(t, InRange(MaxAmount*2))
	assert.False(t, InRange(math.Inf(1)))
	assert.False(t, InRange(math.NaN()))
}

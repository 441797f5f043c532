package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
	}{
		{"42", true},
		{"-42", true},
		{"+7", true},
		{"3.14", true},
		{"1e10", true},
		{"2.5E-3", true},
		{"not-a-number", false},
		{"", false},
		{"1.", false},
		{".5", false},
		{"1e", false},
		{" 42", false},
		{"0x10", false},
		{"NaN", false},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumeric(tt.payload))
		})
	}
}

func TestFormatCheckbox(t *testing.T) {
	assert.Equal(t, "true", FormatCheckbox(true))
	assert.Equal(t, "false", FormatCheckbox(false))
}

func TestFormatPoint(t *testing.T) {
	tests := []struct {
		name  string
		point [2]float64
		want  string
	}{
		{"integers", [2]float64{1, 2}, "[1,2]"},
		{"fractions", [2]float64{1.5, -2.25}, "[1.5,-2.25]"},
		{"zero", [2]float64{0, 0}, "[0,0]"},
		{"large exponent", [2]float64{1e21, 1}, "[1e+21,1]"},
		{"small exponent", [2]float64{1e-7, 1}, "[1e-7,1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPoint(tt.point))
		})
	}
}

func TestFormatPoint_NonFinite(t *testing.T) {
	assert.Equal(t, "", FormatPoint([2]float64{math.NaN(), 0}))
	assert.Equal(t, "", FormatPoint([2]float64{math.Inf(1), 0}))
}

func TestDataTypeValid(t *testing.T) {
	for _, dt := range DataTypes {
		assert.True(t, dt.Valid(), dt)
	}
	assert.False(t, DataType("Float").Valid())
	assert.False(t, DataType("").Valid())
}

func TestSpaceTypeValid(t *testing.T) {
	assert.True(t, SpaceTypePersonal.Valid())
	assert.True(t, SpaceTypePublic.Valid())
	assert.False(t, SpaceType("Private").Valid())
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 540.0, Round(539.82))
	assert.Equal(t, 539.0, Round(539.49))
	assert.Equal(t, 540.0, Round(539.5)) // half up
	assert.Equal(t, 0.0, Round(0))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(299900), MinorUnits(2999))
	assert.Equal(t, int64(353900), MinorUnits(3539))
	assert.Equal(t, int64(50), MinorUnits(0.5))
	assert.Equal(t, int64(0), MinorUnits(0))

	// 19.99 is not exactly representable; rounding keeps it at 1999
	assert.Equal(t, int64(1999), MinorUnits(19.99))
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹3539.00", FormatINR(3539))
	assert.Equal(t, "₹499.50", FormatINR(499.5))
}

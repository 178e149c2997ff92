package decimals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestResolveOverridesWinOverReported(t *testing.T) {
	assert.Equal(t, 18, Resolve("CRS", intPtr(8)))
	assert.Equal(t, 18, Resolve("ETHST", nil))
	assert.Equal(t, 4, Resolve("STRAT", intPtr(8)))
}

func TestResolveUsesReportedValue(t *testing.T) {
	assert.Equal(t, 8, Resolve("SOMETOKEN", intPtr(8)))
	assert.Equal(t, 0, Resolve("SOMETOKEN", intPtr(0)))
}

func TestResolveDefaultsWhenAbsent(t *testing.T) {
	assert.Equal(t, DefaultDecimals, Resolve("SOMETOKEN", nil))
}

func TestResolveRejectsOutOfRangeReported(t *testing.T) {
	assert.Equal(t, DefaultDecimals, Resolve("SOMETOKEN", intPtr(-2)))
	assert.Equal(t, DefaultDecimals, Resolve("SOMETOKEN", intPtr(256)))
	assert.Equal(t, MaxDecimals, Resolve("SOMETOKEN", intPtr(MaxDecimals)))
}

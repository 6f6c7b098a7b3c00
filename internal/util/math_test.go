package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	assert.Equal(t, 5.0, Coerce(5.0, 0, 10))
	assert.Equal(t, 0.0, Coerce(-1.0, 0, 10))
	assert.Equal(t, 10.0, Coerce(11.0, 0, 10))
	assert.Equal(t, 3, Coerce(7, 1, 3))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-1e300))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1)))
}

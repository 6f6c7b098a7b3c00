package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverage_PartiallyFilled(t *testing.T) {
	// GIVEN
	avg := NewMovingAverage(4)

	// WHEN
	avg.Append(2)
	result := avg.Append(4)

	// THEN
	assert.Equal(t, 3.0, result)
}

func TestMovingAverage_DropsOldest(t *testing.T) {
	// GIVEN
	avg := NewMovingAverage(2)
	avg.Append(100)
	avg.Append(2)

	// WHEN
	result := avg.Append(4)

	// THEN
	assert.Equal(t, 3.0, result)
}

func TestMovingAverage_Empty(t *testing.T) {
	assert.Equal(t, 0.0, NewMovingAverage(3).Value())
}

func TestMovingAverage_PeekDoesNotAppend(t *testing.T) {
	// GIVEN
	avg := NewMovingAverage(2)
	avg.Append(100)
	avg.Append(2)

	// WHEN
	peeked := avg.Peek(4)

	// THEN
	assert.Equal(t, 3.0, peeked)
	assert.Equal(t, 51.0, avg.Value())
	assert.Equal(t, peeked, avg.Append(4))
}

func TestMovingAverage_PeekPartiallyFilled(t *testing.T) {
	// GIVEN
	avg := NewMovingAverage(4)
	avg.Append(2)

	// WHEN
	result := avg.Peek(4)

	// THEN
	assert.Equal(t, 3.0, result)
	assert.Equal(t, 2.0, avg.Value())
}

func TestMovingAverage_Reset(t *testing.T) {
	// GIVEN
	avg := NewMovingAverage(2)
	avg.Append(100)
	avg.Append(2)

	// WHEN
	avg.Reset()

	// THEN
	assert.Equal(t, 0.0, avg.Value())
	assert.Equal(t, 4.0, avg.Append(4))
}

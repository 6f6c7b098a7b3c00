package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSortedKeys(t *testing.T) {
	// GIVEN
	input := map[string]int{
		"outer": 1,
		"inner": 2,
		"aux":   3,
	}

	// WHEN
	result := SortedKeys(input)

	// THEN
	assert.Equal(t, []string{"aux", "inner", "outer"}, result)
}

package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowSum returns the sum of all values in the given window
func GetWindowSum(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Sum)
}

// MovingAverage is the average over the last n appended values.
// Until n values have been appended, only the appended values are considered.
type MovingAverage struct {
	size  int
	count int
	// offset of the next value to be written, the oldest value once the window is full
	next   int
	window *rolling.PointPolicy
}

func NewMovingAverage(size int) *MovingAverage {
	return &MovingAverage{
		size:   size,
		window: CreateRollingWindow(size),
	}
}

// Append adds a value and returns the new average
func (m *MovingAverage) Append(value float64) float64 {
	m.window.Append(value)
	m.next = (m.next + 1) % m.size
	if m.count < m.size {
		m.count++
	}
	return m.Value()
}

// Peek returns the average Append would return for the given value,
// without appending it
func (m *MovingAverage) Peek(value float64) float64 {
	sum := GetWindowSum(m.window) + value
	if m.count < m.size {
		return sum / float64(m.count+1)
	}
	oldest := m.window.Reduce(func(w rolling.Window) float64 {
		return w[m.next][0]
	})
	return (sum - oldest) / float64(m.size)
}

// Reset forgets all appended values
func (m *MovingAverage) Reset() {
	m.count = 0
	m.next = 0
	m.window = CreateRollingWindow(m.size)
}

// Value returns the current average, 0 if nothing was appended yet
func (m *MovingAverage) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return GetWindowSum(m.window) / float64(m.count)
}

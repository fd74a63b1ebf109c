package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(start, start.Add(time.Second*30)))
	assert.Equal(t, 1, DaysBetween(start, start.Add(2*time.Minute)))
	assert.Equal(t, 30, DaysBetween(start, time.Date(2024, 3, 31, 8, 0, 0, 0, time.UTC)))
}

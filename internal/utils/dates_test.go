package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2026-03-09 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", got)

	for _, bad := range []string{"", "2026-3-9", "09/03/2026", "2026-02-30"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestClockToday(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	// 23:30 UTC is already the next day in Rome.
	clock := Clock(func() time.Time {
		return time.Date(2026, 6, 1, 23, 30, 0, 0, time.UTC)
	})

	assert.Equal(t, "2026-06-01", clock.Today(time.UTC))
	assert.Equal(t, "2026-06-02", clock.Today(rome))
	assert.NotEmpty(t, Clock(nil).Today(nil))
}

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Amy", CleanString("  Amy\t"))
	assert.Equal(t, "STU001", CleanString("STU001"))
	assert.Equal(t, "stu001", CleanString(" STU001 ", true))
	assert.Equal(t, "", CleanString("   "))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(66.666666))
	assert.Equal(t, 66.66, Round2(66.664))
	assert.Equal(t, 75.0, Round2(75))
	assert.Equal(t, 0.0, Round2(0))
}

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2026-03-10", FormatDate(d))

	_, err = ParseDate("10/03/2026")
	assert.Error(t, err)
}

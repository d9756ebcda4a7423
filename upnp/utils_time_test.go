package upnp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTZOffset(t *testing.T) {
	assert.Equal(t, "12:34:56+01:00", normalizeTZOffset("12:34:56+1:00"))
	assert.Equal(t, "12:34:56-05:30", normalizeTZOffset("12:34:56-5:30"))
	assert.Equal(t, "12:34:56+10:00", normalizeTZOffset("12:34:56+10:00"))
	assert.Equal(t, "12:34:56", normalizeTZOffset("12:34:56"))
	assert.Equal(t, "2017-08-11T12:34:56+02:00", normalizeTZOffset("2017-08-11T12:34:56+2:00"))
}

func TestParseDateTimeTZFlag(t *testing.T) {
	_, hasTZ, err := parseDateTime("2017-08-11T12:34:56")
	require.NoError(t, err)
	assert.False(t, hasTZ)

	_, hasTZ, err = parseDateTime("2017-08-11T12:34:56+02:00")
	require.NoError(t, err)
	assert.True(t, hasTZ)

	_, hasTZ, err = parseDateTime("2017-08-11T12:34:56Z")
	require.NoError(t, err)
	assert.True(t, hasTZ)

	_, _, err = parseDateTime("11/08/2017")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	ts, hasTZ, err := parseClock("08:09:10")
	require.NoError(t, err)
	assert.False(t, hasTZ)
	assert.Equal(t, 8, ts.Hour())
	assert.Equal(t, 9, ts.Minute())
	assert.Equal(t, 10, ts.Second())

	_, hasTZ, err = parseClock("08:09:10+02:00")
	require.NoError(t, err)
	assert.True(t, hasTZ)

	_, _, err = parseClock("8 o'clock")
	assert.Error(t, err)
}

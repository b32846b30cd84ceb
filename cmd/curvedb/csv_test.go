package main

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	feb3 := time.Date(2018, time.February, 3, 0, 0, 0, 0, time.UTC).Unix()

	for _, field := range []string{
		"1517616000",
		"2018-02-03",
		"2018-02-03T00:00:00Z",
		"2018-02-03T01:00:00+01:00",
		" 2018-02-03 00:00:00 ",
	} {
		got, err := parseTime(field)
		require.NoError(t, err, field)
		assert.Equal(t, feb3, got, field)
	}

	got, err := parseTime("-86400")
	require.NoError(t, err)
	assert.Equal(t, int64(-86400), got)

	_, err = parseTime("03/02/2018")
	assert.Error(t, err)
}

func TestReadCurve(t *testing.T) {
	input := `time,value
# comment
2018-02-03,3
2018-02-07, 5.5,ignored
1517616000,-1e3
`
	times, values, err := readCurve(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []int64{1517616000, 1517961600, 1517616000}, times)
	assert.Equal(t, []float64{3, 5.5, -1000}, values)
}

func TestReadCurve_NoHeader(t *testing.T) {
	times, values, err := readCurve(strings.NewReader("0,1\n86400,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 86400}, times)
	assert.Equal(t, []float64{1, 2}, values)
}

func TestReadCurve_Errors(t *testing.T) {
	_, _, err := readCurve(strings.NewReader("0,1\nyesterday,2\n"))
	assert.ErrorContains(t, err, "line 2")

	_, _, err = readCurve(strings.NewReader("0,1\n86400,lots\n"))
	assert.ErrorContains(t, err, "line 2")

	_, _, err = readCurve(strings.NewReader("0\n"))
	assert.ErrorContains(t, err, "line 1")
}

func TestWriteCurve(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeCurve(&out, []int64{0, 86400}, []float64{1, 2.5}, false))
	assert.Equal(t, "time,value\n1970-01-01T00:00:00Z,1\n1970-01-02T00:00:00Z,2.5\n", out.String())

	out.Reset()
	require.NoError(t, writeCurve(&out, []int64{86400}, []float64{0.1}, true))
	assert.Equal(t, "time,value\n86400,0.1\n", out.String())
}

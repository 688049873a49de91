package util

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistsAndIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cowrie.json")
	require.NoError(t, os.WriteFile(file, []byte("{}\n"), 0644))

	assert.True(t, Exists(dir))
	assert.True(t, IsDir(dir))
	assert.True(t, Exists(file))
	assert.False(t, IsDir(file))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}

func TestPercentile(t *testing.T) {
	testCases := []struct {
		values []float64
		q      float64
		out    float64
		msg    string
	}{
		{[]float64{1, 2, 3, 4, 5}, 50, 3, "odd length median"},
		{[]float64{4, 1, 3, 2}, 50, 2.5, "unsorted even length median interpolates"},
		{[]float64{0, 10}, 15, 1.5, "linear interpolation between ranks"},
		{[]float64{7}, 99, 7, "single value"},
		{[]float64{3, 1, 2}, 0, 1, "0th percentile is the minimum"},
		{[]float64{3, 1, 2}, 100, 3, "100th percentile is the maximum"},
	}
	for _, test := range testCases {
		assert.InDelta(t, test.out, Percentile(test.values, test.q), 1e-12, test.msg)
	}
	assert.True(t, math.IsNaN(Percentile(nil, 50)), "no values has no percentile")
}

func TestPercentileDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Percentile(values, 50)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "5", FormatFloat(5))
	assert.Equal(t, "0.25", FormatFloat(0.25))
	assert.Equal(t, "0", FormatFloat(math.NaN()))
	assert.Equal(t, "0", FormatFloat(math.Inf(-1)))
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "c": 2, "a": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
}

func TestNilProgressBar(t *testing.T) {
	bar := NewProgressBar("Reading", 0, true)
	assert.Nil(t, bar, "nothing to count draws nothing")
	bar = NewProgressBar("Reading", 3, false)
	assert.Nil(t, bar, "hidden progress draws nothing")
	bar.Increment()
	bar.Wait()
}

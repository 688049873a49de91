package commands

import (
	"strconv"
	"time"
)

// helper functions for formatting floats and integers
func f(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
func i(i int64) string {
	return strconv.FormatInt(i, 10)
}

func boolString(b bool) string {
	return strconv.FormatBool(b)
}

// timeString prints a timestamp the way the tables store it
func timeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// rowLimit returns how many of n rows the limit flags allow
func rowLimit(n int, limit int, noLimit bool) int {
	if noLimit || limit <= 0 || limit > n {
		return n
	}
	return limit
}

package parsetypes

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampStrategy turns one textual encoding of a timestamp into a time
type TimestampStrategy struct {
	Name  string
	Parse func(string) (time.Time, bool)
}

// TimestampStrategies are tried in order; the first success wins
var TimestampStrategies = []TimestampStrategy{
	{Name: "rfc3339", Parse: layoutParser(time.RFC3339Nano)},
	{Name: "rfc3339-space", Parse: layoutParser("2006-01-02 15:04:05Z07:00")},
	{Name: "iso8601-naive", Parse: layoutParser("2006-01-02T15:04:05")},
	{Name: "iso8601-naive-space", Parse: layoutParser("2006-01-02 15:04:05")},
	{Name: "unix-epoch", Parse: parseEpoch},
}

// layoutParser parses with a time layout. Layouts without a zone are UTC.
// Fractional seconds are accepted after the seconds field.
func layoutParser(layout string) func(string) (time.Time, bool) {
	return func(raw string) (time.Time, bool) {
		t, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}
}

// parseEpoch parses fractional unix seconds
func parseEpoch(raw string) (time.Time, bool) {
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
		return time.Time{}, false
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC(), true
}

// ParseTimestampString runs the strategies against a bare string. It
// returns the parsed time and the name of the strategy which succeeded.
func ParseTimestampString(raw string) (time.Time, string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, "", false
	}
	for _, strategy := range TimestampStrategies {
		if t, ok := strategy.Parse(raw); ok {
			return t, strategy.Name, true
		}
	}
	return time.Time{}, "", false
}

// ParseTimestamp parses the raw JSON value of a timestamp field, which
// may be a string or a number
func ParseTimestamp(raw json.RawMessage) (time.Time, string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, "", false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return ParseTimestampString(str)
	}
	return ParseTimestampString(string(raw))
}

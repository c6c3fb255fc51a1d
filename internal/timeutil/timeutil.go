// Package timeutil converts the time expressions accepted by the API
// (granularity strings such as "5m", time-ago strings such as "2w-ago",
// epoch-millisecond integers and time.Time values) to millisecond precision.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidGranularity is returned when a granularity string cannot be parsed.
var ErrInvalidGranularity = fmt.Errorf("invalid granularity string")

// defaultLookback is applied when no interval start is given.
const defaultLookback = "2w-ago"

var granularityUnitMS = map[string]int64{
	"s":      1_000,
	"second": 1_000,
	"m":      60_000,
	"minute": 60_000,
	"h":      3_600_000,
	"hour":   3_600_000,
	"d":      86_400_000,
	"day":    86_400_000,
}

var timeAgoUnitMS = map[string]int64{
	"s": 1_000,
	"m": 60_000,
	"h": 3_600_000,
	"d": 86_400_000,
	"w": 604_800_000,
}

var (
	granularityPattern = regexp.MustCompile(`^(\d+)([a-z]+)$`)
	timeAgoPattern     = regexp.MustCompile(`^(\d+)([a-z])-ago$`)
)

// GranularityToMS returns the millisecond representation of a granularity
// time string, e.g. "5m" -> 300000. Accepted units: s/second, m/minute,
// h/hour, d/day.
func GranularityToMS(granularity string) (int64, error) {
	groups := granularityPattern.FindStringSubmatch(granularity)
	if groups == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGranularity, granularity)
	}

	magnitude, err := strconv.ParseInt(groups[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGranularity, granularity)
	}

	unitMS, ok := granularityUnitMS[groups[2]]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit in %q", ErrInvalidGranularity, granularity)
	}

	return magnitude * unitMS, nil
}

// timeAgoToMS returns the millisecond representation of a time-ago string
// such as "2w-ago", or an error when the string does not match the pattern.
func timeAgoToMS(timeAgo string) (int64, error) {
	groups := timeAgoPattern.FindStringSubmatch(timeAgo)
	if groups == nil {
		return 0, fmt.Errorf("invalid time-ago string %q", timeAgo)
	}

	magnitude, err := strconv.ParseInt(groups[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time-ago string %q", timeAgo)
	}

	unitMS, ok := timeAgoUnitMS[groups[2]]
	if !ok {
		return 0, fmt.Errorf("invalid time-ago string %q: unknown unit", timeAgo)
	}

	return magnitude * unitMS, nil
}

// TimestampMS returns the epoch-millisecond representation of t.
func TimestampMS(t time.Time) int64 {
	return t.UnixMilli()
}

// RoundToNearest rounds x to the nearest multiple of base. Midpoints round
// away from zero.
func RoundToNearest(x, base int64) int64 {
	if base == 0 {
		return x
	}
	half := base / 2
	if x < 0 {
		half = -half
	}
	return (x + half) / base * base
}

// IntervalToMS resolves a start/end interval to epoch milliseconds. Each
// endpoint may be a time.Time, a time-ago string ("2w-ago"), an int or int64
// epoch-millisecond value, or nil. A nil start defaults to two weeks ago, a
// nil end to the current time.
func IntervalToMS(start, end any) (int64, int64, error) {
	now := time.Now().UnixMilli()

	startMS, err := endpointToMS(start, now, defaultLookback)
	if err != nil {
		return 0, 0, fmt.Errorf("interval start: %w", err)
	}

	endMS, err := endpointToMS(end, now, "")
	if err != nil {
		return 0, 0, fmt.Errorf("interval end: %w", err)
	}

	return startMS, endMS, nil
}

func endpointToMS(v any, now int64, fallback string) (int64, error) {
	switch value := v.(type) {
	case nil:
		if fallback == "" {
			return now, nil
		}
		ago, err := timeAgoToMS(fallback)
		if err != nil {
			return 0, err
		}
		return now - ago, nil
	case time.Time:
		return TimestampMS(value), nil
	case string:
		ago, err := timeAgoToMS(value)
		if err != nil {
			return 0, err
		}
		return now - ago, nil
	case int64:
		return value, nil
	case int:
		return int64(value), nil
	default:
		return 0, fmt.Errorf("unsupported interval endpoint type %T", v)
	}
}

package model

import (
	"strconv"
	"time"
)

// Timeframe is a short chart-resolution label: a count plus a unit suffix.
// Supported units: m (minute), h (hour), d (day), w (week), M (month), Y (year).
// Examples: "1h", "4h", "1d", "2w", "3M", "1Y".
type Timeframe string

// Millisecond spans used for default bar intervals when a series is too
// short to derive the spacing from its first two bars.
const (
	msMinute = int64(60 * 1000)
	msHour   = 60 * msMinute
	msDay    = 24 * msHour
	msWeek   = 7 * msDay
	msMonth  = 30 * msDay // calendar months are uneven; 30d is the padding default
	msYear   = 365 * msDay
)

// Count returns the leading multiplier of the label (e.g. 4 for "4h").
// Defaults to 1 when the label has no parseable prefix.
func (tf Timeframe) Count() int {
	s := string(tf)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 1
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// Unit returns the unit suffix of the label ("m", "h", "d", "w", "M", "Y").
// Defaults to "d" for unrecognized labels.
func (tf Timeframe) Unit() string {
	s := string(tf)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == len(s) {
		return "d"
	}
	return s[i:]
}

// DefaultInterval returns the expected bar spacing in milliseconds for this
// timeframe. Used by the timeline extender when fewer than two real bars
// exist to derive the spacing from.
func (tf Timeframe) DefaultInterval() int64 {
	n := int64(tf.Count())
	switch tf.Unit() {
	case "m":
		return n * msMinute
	case "h":
		return n * msHour
	case "w":
		return n * msWeek
	case "M":
		return n * msMonth
	case "Y":
		return n * msYear
	default:
		return n * msDay
	}
}

// IsIntraday reports whether one bar spans less than a full day.
func (tf Timeframe) IsIntraday() bool {
	u := tf.Unit()
	return u == "m" || u == "h"
}

// IsMonthlyOrAbove reports whether one bar spans a month or more.
func (tf Timeframe) IsMonthlyOrAbove() bool {
	u := tf.Unit()
	return u == "M" || u == "Y"
}

// FormatTime renders a bar timestamp for the time axis at a granularity
// suited to the timeframe: hour:minute for sub-daily bars, day-month-year
// for daily/weekly, month-year for monthly and above.
func (tf Timeframe) FormatTime(tsMillis int64) string {
	t := time.UnixMilli(tsMillis).UTC()
	switch {
	case tf.IsIntraday():
		return t.Format("15:04")
	case tf.IsMonthlyOrAbove():
		return t.Format("Jan 2006")
	default:
		return t.Format("02 Jan 06")
	}
}

// DefaultTimeframes are the chart resolutions offered by the timeframe picker.
var DefaultTimeframes = []Timeframe{
	"1m", "5m", "15m", "1h", "4h",
	"1d", "2d", "3d", "1w", "2w", "3w",
	"1M", "2M", "3M", "6M", "1Y",
}

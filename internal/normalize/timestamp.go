package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/tidwall/gjson"
)

const (
	// DateLayout renders dates as "November 14, 2023".
	DateLayout = "January 2, 2006"

	// secondsThreshold separates epoch seconds (below) from milliseconds.
	secondsThreshold = 10_000_000_000

	// maxEpochMillis is the largest representable instant, 100,000,000 days
	// either side of the epoch.
	maxEpochMillis = 8.64e15
)

// FormatTimestamp renders an epoch timestamp node as a long date in UTC.
// Numbers and numeric strings are accepted; a string is read up to its first
// non-digit. Values below 10,000,000,000 are seconds, others milliseconds.
// Anything absent, zero, unparsable, or out of range yields DateNotAvailable.
func FormatTimestamp(v gjson.Result) string {
	ms, ok := epochMillis(v)
	if !ok {
		return DateNotAvailable
	}
	return time.UnixMilli(ms).UTC().Format(DateLayout)
}

func epochMillis(v gjson.Result) (int64, bool) {
	var n float64
	switch v.Type {
	case gjson.Number:
		n = v.Float()
	case gjson.String:
		parsed, ok := leadingInteger(v.Str)
		if !ok {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	if n < secondsThreshold {
		n *= 1000
	}
	if math.Abs(n) > maxEpochMillis {
		return 0, false
	}
	return int64(n), true
}

// leadingInteger parses an optionally signed run of decimal digits at the
// start of s, after leading white space. Trailing text is ignored.
func leadingInteger(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	// Long digit runs overflow int64 but still parse as float64 and are
	// rejected as out of range by the caller.
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

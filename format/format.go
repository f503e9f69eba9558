// Package format contains the display helpers shared by the dashboard views:
// query parameter lookup and timestamp/duration rendering.
//
// Absent values are reported with a boolean (or a nil pointer on input),
// never with an error. None of the helpers keep state, so calling them twice
// with the same input gives the same output.
package format

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// TimeLayout is the layout produced by TimeString.
const TimeLayout = "2006-01-02 15:04:05"

// Placeholder is rendered by the template helpers for absent values.
const Placeholder = "-"

// maxEpochSeconds bounds timestamps to the range a browser Date accepts
// (±8.64e15 ms).
const maxEpochSeconds = 8.64e12

// CurrentParam returns the first value bound to key in the query string of
// location. The boolean is false when the key is not present; a key with an
// empty value is present and yields "".
func CurrentParam(location *url.URL, key string) (string, bool) {
	if location == nil {
		return "", false
	}
	return QueryParam(location.RawQuery, key)
}

// QueryParam is CurrentParam for a raw query string (with or without the
// leading "?"). Pairs are separated by "&" only. Keys and values are decoded
// leniently: "+" is a space, a valid %XX escape is its byte, and anything else,
// including a stray "%", is kept as written.
func QueryParam(rawQuery, key string) (string, bool) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = strings.Cut(rawQuery, "&")
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		if unescape(k) == key {
			return unescape(v), true
		}
	}
	return "", false
}

func unescape(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c <= 'F':
		return c - 'A' + 10
	default:
		return c - 'a' + 10
	}
}

// TimeString renders seconds since the epoch as "YYYY-MM-DD HH:MM:SS" in UTC.
// The value is truncated toward zero to whole milliseconds and the
// milliseconds are then dropped, so -0.0004 is the epoch but -0.5 is the
// second before it. A nil timestamp is returned as absent without
// any computation, as are non-finite or out-of-range values.
func TimeString(ts *float64) (string, bool) {
	if ts == nil {
		return "", false
	}
	v := *ts
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxEpochSeconds {
		return "", false
	}
	return time.UnixMilli(int64(math.Trunc(v * 1000))).UTC().Format(TimeLayout), true
}

// DurationString renders a duration in seconds as HH:MM:SS. Each component is
// zero-padded to two digits and hours are not wrapped, so 90000 renders as
// "25:00:00". Negative durations are rendered as the magnitude with a leading
// "-"; non-finite input renders as "--:--:--".
func DurationString(duration float64) string {
	if math.IsNaN(duration) || math.IsInf(duration, 0) {
		return "--:--:--"
	}
	if duration < 0 {
		return "-" + DurationString(-duration)
	}

	hours := math.Floor(duration / 3600)
	minutes := math.Floor((duration - hours*3600) / 60)
	seconds := math.Floor(duration - hours*3600 - minutes*60)

	return fmt.Sprintf("%02d:%02d:%02d", int64(hours), int64(minutes), int64(seconds))
}

// Timestamp is TimeString for templates: absent renders as Placeholder.
func Timestamp(ts *float64) string {
	s, ok := TimeString(ts)
	if !ok {
		return Placeholder
	}
	return s
}

// Duration is DurationString for templates.
func Duration(seconds float64) string {
	return DurationString(seconds)
}

// Ago renders ts relative to now ("3 hours ago").
func Ago(ts *float64, now time.Time) string {
	if _, ok := TimeString(ts); !ok {
		return Placeholder
	}
	sec, frac := math.Modf(*ts)
	then := time.Unix(int64(sec), int64(frac*1e9))
	return humanize.RelTime(then, now, "ago", "from now")
}

// Count renders n with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Elapsed returns the seconds between start and end. While end is absent the
// duration runs up to now. The boolean is false when start is absent.
func Elapsed(start, end *float64, now time.Time) (float64, bool) {
	if start == nil {
		return 0, false
	}
	stop := float64(now.UnixNano()) / 1e9
	if end != nil {
		stop = *end
	}
	return stop - *start, true
}

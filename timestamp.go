package zerv

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp pattern aliases.
const (
	PatternCompactDate     = "compact_date"
	PatternCompactDatetime = "compact_datetime"
)

var timestampAliases = map[string]string{
	PatternCompactDate:     "YYYY0M0D",
	PatternCompactDatetime: "YYYY0M0D0H0m0S",
}

// formatTimestamp renders a Unix timestamp (UTC) with a calendar pattern.
// Tokens follow the CalVer convention: YYYY, YY, MM/0M, WW/0W, DD/0D,
// HH/0H, mm/0m, SS/0S, where the 0-prefixed forms are zero padded.
// Punctuation passes through literally.
func formatTimestamp(pattern string, ts uint64) (string, error) {
	if alias, ok := timestampAliases[pattern]; ok {
		pattern = alias
	}

	t := time.Unix(int64(ts), 0).UTC()
	var b strings.Builder
	rest := pattern
	for rest != "" {
		tok, val, ok := nextTimestampToken(rest, t)
		if !ok {
			return "", &ParseError{
				Input: pattern,
				Token: rest,
				Pos:   len(pattern) - len(rest),
				Msg:   "unknown timestamp token",
			}
		}
		b.WriteString(val)
		rest = rest[len(tok):]
	}
	return b.String(), nil
}

func nextTimestampToken(s string, t time.Time) (string, string, bool) {
	switch {
	case strings.HasPrefix(s, "YYYY"):
		return "YYYY", strconv.Itoa(t.Year()), true
	case strings.HasPrefix(s, "YY"):
		return "YY", strconv.Itoa(t.Year() % 100), true
	case strings.HasPrefix(s, "MM"):
		return "MM", strconv.Itoa(int(t.Month())), true
	case strings.HasPrefix(s, "0M"):
		return "0M", fmt.Sprintf("%02d", int(t.Month())), true
	case strings.HasPrefix(s, "WW"):
		return "WW", strconv.Itoa(weekOfYear(t)), true
	case strings.HasPrefix(s, "0W"):
		return "0W", fmt.Sprintf("%02d", weekOfYear(t)), true
	case strings.HasPrefix(s, "DD"):
		return "DD", strconv.Itoa(t.Day()), true
	case strings.HasPrefix(s, "0D"):
		return "0D", fmt.Sprintf("%02d", t.Day()), true
	case strings.HasPrefix(s, "HH"):
		return "HH", strconv.Itoa(t.Hour()), true
	case strings.HasPrefix(s, "0H"):
		return "0H", fmt.Sprintf("%02d", t.Hour()), true
	case strings.HasPrefix(s, "mm"):
		return "mm", strconv.Itoa(t.Minute()), true
	case strings.HasPrefix(s, "0m"):
		return "0m", fmt.Sprintf("%02d", t.Minute()), true
	case strings.HasPrefix(s, "SS"):
		return "SS", strconv.Itoa(t.Second()), true
	case strings.HasPrefix(s, "0S"):
		return "0S", fmt.Sprintf("%02d", t.Second()), true
	}
	r := s[0]
	if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
		return "", "", false
	}
	return s[:1], s[:1], true
}

// weekOfYear is the Monday-first week number, with days before the year's
// first Monday falling in week 0.
func weekOfYear(t time.Time) int {
	mondayIndex := (int(t.Weekday()) + 6) % 7
	return (t.YearDay() + 6 - mondayIndex) / 7
}

// validTimestampPattern checks a pattern without rendering it.
func validTimestampPattern(pattern string) bool {
	_, err := formatTimestamp(pattern, 0)
	return err == nil
}

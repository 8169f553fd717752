package domain

import (
	"regexp"
	"strconv"
	"time"
)

// Weekday keys as they appear in the catalog dataset, Monday first.
var DayKeys = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// Hours maps a day key to free-form opening text such as "08:00-22:00" or "07:00–12:00, 13:00–20:00".
type Hours map[string]string

// For returns the opening text for the given weekday.
func (h Hours) For(day time.Weekday) string {
	if h == nil {
		return ""
	}
	// time.Sunday is 0; DayKeys starts on Monday.
	return h[DayKeys[(int(day)+6)%7]]
}

var timeRangeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-–]\s*(\d{1,2}):(\d{2})`)

type clockRange struct {
	from, to int // minutes since midnight
}

func parseRanges(text string) []clockRange {
	var out []clockRange
	for _, m := range timeRangeRe.FindAllStringSubmatch(text, -1) {
		h1, _ := strconv.Atoi(m[1])
		m1, _ := strconv.Atoi(m[2])
		h2, _ := strconv.Atoi(m[3])
		m2, _ := strconv.Atoi(m[4])
		if h1 > 24 || h2 > 24 || m1 > 59 || m2 > 59 {
			continue
		}
		out = append(out, clockRange{from: h1*60 + m1, to: h2*60 + m2})
	}
	return out
}

// IsOpenAt reports whether the wall-clock time of t falls inside any range in dayText.
// Ranges with start after end wrap past midnight. Both ends are inclusive.
func IsOpenAt(dayText string, t time.Time) bool {
	now := t.Hour()*60 + t.Minute()
	for _, r := range parseRanges(dayText) {
		if r.from <= r.to {
			if r.from <= now && now <= r.to {
				return true
			}
		} else if now >= r.from || now <= r.to {
			return true
		}
	}
	return false
}

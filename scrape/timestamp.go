package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const clock = `(\d{1,2}):(\d{2})(?:\s*(AM|PM))?`

var (
	timeOnly     = regexp.MustCompile(`(?i)^` + clock + `$`)
	timeThenDate = regexp.MustCompile(`(?i)^` + clock + `,\s*(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	dateThenTime = regexp.MustCompile(`(?i)^(\d{1,2})/(\d{1,2})/(\d{2,4}),\s*` + clock + `$`)
	relative     = regexp.MustCompile(`(?i)^(Yesterday|Today),\s*` + clock + `$`)
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp understands the timestamp formats WhatsApp Web prints:
//
//	14:30                  2:30 PM
//	14:30, 12/25/23        2:30 PM, 12/25/2023
//	12/25/23, 14:30        12/25/2023, 2:30 PM
//	Yesterday, 14:30       Today, 2:30 PM
//
// plus ISO dates. Dates are month/day/year. Times without a date are today.
func ParseTimestamp(s string, now time.Time, loc *time.Location) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	if m := timeOnly.FindStringSubmatch(s); m != nil {
		h, min := clockOf(m[1], m[2], m[3])
		return at(now.Year(), int(now.Month()), now.Day(), h, min, loc), true
	}

	if m := timeThenDate.FindStringSubmatch(s); m != nil {
		h, min := clockOf(m[1], m[2], m[3])
		return at(year(m[6]), atoi(m[4]), atoi(m[5]), h, min, loc), true
	}

	if m := dateThenTime.FindStringSubmatch(s); m != nil {
		h, min := clockOf(m[4], m[5], m[6])
		return at(year(m[3]), atoi(m[1]), atoi(m[2]), h, min, loc), true
	}

	if m := relative.FindStringSubmatch(s); m != nil {
		h, min := clockOf(m[2], m[3], m[4])
		day := now
		if strings.EqualFold(m[1], "yesterday") {
			day = now.AddDate(0, 0, -1)
		}
		return at(day.Year(), int(day.Month()), day.Day(), h, min, loc), true
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

func clockOf(hours, minutes, ampm string) (int, int) {
	h := atoi(hours)
	switch strings.ToUpper(ampm) {
	case "PM":
		if h != 12 {
			h += 12
		}
	case "AM":
		if h == 12 {
			h = 0
		}
	}
	return h, atoi(minutes)
}

func year(s string) int {
	y := atoi(s)
	if y < 100 {
		y += 2000
	}
	return y
}

func at(y, month, day, h, min int, loc *time.Location) int64 {
	return time.Date(y, time.Month(month), day, h, min, 0, 0, loc).UnixMilli()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

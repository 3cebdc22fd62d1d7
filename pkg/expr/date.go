package expr

import (
	"strconv"
	"strings"
	"time"
)

// formatDate substitutes date tokens in pattern. Tokens are tried in a fixed
// order and each one replaces only its first occurrence:
//
//	YYYY YYY YY Y   year, last 3/2/1 digits
//	MM M            month
//	DD D            day
//	HH H            hour (24h)
//	hh h            AM/PM followed by hour (12h)
//	mm m            minute
//	ss s            second
func formatDate(pattern string, t time.Time) string {
	year := strconv.Itoa(t.Year())
	month := strconv.Itoa(int(t.Month()))
	day := strconv.Itoa(t.Day())

	hour24 := t.Hour()
	hour12 := hour24
	meridiem := "AM"
	if hour24 >= 12 {
		hour12 -= 12
		meridiem = "PM"
	}
	hour := strconv.Itoa(hour24)
	min := strconv.Itoa(t.Minute())
	sec := strconv.Itoa(t.Second())

	replacements := [...][2]string{
		{"YYYY", year},
		{"YYY", lastDigits(year, 3)},
		{"YY", lastDigits(year, 2)},
		{"Y", lastDigits(year, 1)},
		{"MM", pad2(month)},
		{"M", month},
		{"DD", pad2(day)},
		{"D", day},
		{"HH", pad2(hour)},
		{"H", hour},
		{"hh", meridiem + pad2(strconv.Itoa(hour12))},
		{"h", meridiem + strconv.Itoa(hour12)},
		{"mm", pad2(min)},
		{"m", min},
		{"ss", pad2(sec)},
		{"s", sec},
	}

	out := pattern
	for _, r := range replacements {
		out = strings.Replace(out, r[0], r[1], 1)
	}
	return out
}

func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func pad2(s string) string {
	return lastDigits("0"+s, 2)
}

package extraction

import (
	"regexp"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// ExtractDate returns the invoice date, if any.
//
// A day-month-year date shortly after the first date keyword present wins.
// Otherwise the first valid day-month-year date anywhere is used, then the
// first valid year-month-day date.
func (e *Extractor) ExtractDate(text string) (civil.Date, bool) {
	if d, ok := e.anchoredDate(text); ok {
		return d, true
	}
	if d, ok := e.firstDate(text, e.dayMonthYear, 3, 2, 1); ok {
		return d, true
	}
	return e.firstDate(text, e.yearMonthDay, 1, 2, 3)
}

func (e *Extractor) anchoredDate(text string) (civil.Date, bool) {
	for _, kw := range e.dateKeywords {
		loc := kw.FindStringIndex(text)
		if loc == nil {
			continue
		}
		_, after := window(text, loc[1], loc[1], 0, e.locale.DateWindow)
		return e.firstDate(after, e.dayMonthYear, 3, 2, 1)
	}
	return civil.Date{}, false
}

// firstDate returns the first match of re that is a valid date. The group
// arguments name the submatch holding each field.
func (e *Extractor) firstDate(text string, re *regexp.Regexp, year, month, day int) (civil.Date, bool) {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if d, ok := e.validDate(m[year], m[month], m[day]); ok {
			return d, true
		}
	}
	return civil.Date{}, false
}

func (e *Extractor) validDate(year, month, day string) (civil.Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return civil.Date{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return civil.Date{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return civil.Date{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return civil.Date{}, false
	}
	if y < e.locale.MinYear || y > e.now().Year()+e.locale.MaxYearAhead {
		return civil.Date{}, false
	}
	date := civil.Date{Year: y, Month: time.Month(m), Day: d}
	if !date.IsValid() {
		return civil.Date{}, false
	}
	return date, true
}

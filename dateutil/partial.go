package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/gbv/jconv/normal"
)

// ErrMissingDate is returned, if a date node has no usable year.
var ErrMissingDate = errors.New("missing date")

// PartialDate is a calendar date known to year, year-month or full day
// precision. A zero Month or Day means unknown.
type PartialDate struct {
	Year  int
	Month int
	Day   int
}

// IsZero reports whether the date carries no year.
func (d PartialDate) IsZero() bool { return d.Year == 0 }

// Compare returns -1, 0 or 1. A missing month or day sorts before any known
// value of the same unit, so 2020 < 2020-06 < 2020-06-15 < 2021.
func (d PartialDate) Compare(o PartialDate) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(d.Month, o.Month)
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d PartialDate) Equal(o PartialDate) bool  { return d == o }
func (d PartialDate) Before(o PartialDate) bool { return d.Compare(o) < 0 }

// String renders the date as YYYY, YYYY-MM or YYYY-MM-DD.
func (d PartialDate) String() string {
	switch {
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FromSelection reads year, month and day child elements of the first node
// in the selection. Month and day are optional; a month outside 1-12 or a day
// outside 1-31 counts as absent.
func FromSelection(sel *goquery.Selection) (PartialDate, error) {
	var d PartialDate
	if sel.Length() == 0 {
		return d, ErrMissingDate
	}
	node := sel.First()
	year, ok := childInt(node, "year")
	if !ok || year <= 0 {
		return d, ErrMissingDate
	}
	d.Year = year
	if m, ok := childInt(node, "month"); ok && m >= 1 && m <= 12 {
		d.Month = m
		if v, ok := childInt(node, "day"); ok && v >= 1 && v <= 31 {
			d.Day = v
		}
	}
	return d, nil
}

func childInt(sel *goquery.Selection, name string) (int, bool) {
	s := normal.String(sel.ChildrenFiltered(name).First().Text())
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Earliest returns the minimum of the given dates, ignoring zero values. On
// ties the first date seen wins.
func Earliest(dates ...PartialDate) (PartialDate, bool) {
	var (
		result PartialDate
		found  bool
	)
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if !found || d.Before(result) {
			result, found = d, true
		}
	}
	return result, found
}

var partialPattern = regexp.MustCompile(`^(\d{4})(?:-(\d{1,2})(?:-(\d{1,2}))?)?$`)

// ParsePartial parses YYYY, YYYY-MM or YYYY-MM-DD, keeping the precision of
// the input. Other layouts are handed to dateparse and yield a full date.
func ParsePartial(s string) (PartialDate, error) {
	s = strings.TrimSpace(s)
	if m := partialPattern.FindStringSubmatch(s); m != nil {
		var d PartialDate
		d.Year, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			d.Month, _ = strconv.Atoi(m[2])
		}
		if m[3] != "" {
			d.Day, _ = strconv.Atoi(m[3])
		}
		if d.Month > 12 || d.Day > 31 {
			return PartialDate{}, fmt.Errorf("%w: %q", ErrMissingDate, s)
		}
		if d.Month == 0 {
			d.Day = 0
		}
		return d, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return PartialDate{}, fmt.Errorf("%w: %q", ErrMissingDate, s)
	}
	return PartialDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

var yearPattern = regexp.MustCompile(`\b(1[5-9]|20)\d{2}\b`)

// FindYear returns the first plausible four digit year in s.
func FindYear(s string) (int, bool) {
	match := yearPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.Atoi(match)
	return v, err == nil
}

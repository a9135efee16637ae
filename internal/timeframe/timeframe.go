// Package timeframe finds date-range expressions in free text and normalizes
// them to comparable "YYYY" / "YYYY-MM" strings.
package timeframe

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/dgallion1/careermap/internal/model"
)

// Open is the sort key of an ongoing end; it is greater than any concrete date.
const Open = math.MaxInt32

const (
	monthExpr   = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`
	yearExpr    = `(?:19|20)\d{2}`
	pointExpr   = `(?:(?:` + monthExpr + `)\.?,?\s+|\d{1,2}/)?` + yearExpr
	presentExpr = `present|current|now|today|ongoing|date`
)

var (
	rangeRe = regexp.MustCompile(`(?i)\b(` + pointExpr + `)\s*(?:-|–|—|to|until|till|through)\s*(` + pointExpr + `|` + presentExpr + `)\b`)
	sinceRe = regexp.MustCompile(`(?i)\b(?:since|from)\s+(` + pointExpr + `)\b`)
	parenRe = regexp.MustCompile(`(?i)\(\s*(` + pointExpr + `)\s*\)`)

	namedPointRe   = regexp.MustCompile(`(?i)^(?:(` + monthExpr + `)\.?,?\s+)?(` + yearExpr + `)$`)
	numericPointRe = regexp.MustCompile(`^(\d{1,2})/(` + yearExpr + `)$`)
	normalPointRe  = regexp.MustCompile(`^(` + yearExpr + `)-(\d{2})$`)
)

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Point is a partially specified date. Month is 0 when unknown.
type Point struct {
	Year  int
	Month int
}

// String renders the normalized form.
func (p Point) String() string {
	if p.Month == 0 {
		return strconv.Itoa(p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Key orders points; a year without a month sorts before its January.
func (p Point) Key() int {
	return p.Year*100 + p.Month
}

// monthIndex counts months since year 0. Unknown months resolve to January
// for starts and December for ends.
func (p Point) monthIndex(end bool) int {
	m := p.Month
	if m == 0 {
		m = 1
		if end {
			m = 12
		}
	}
	return p.Year*12 + m - 1
}

// Range is a date expression found in text. A nil End means ongoing.
type Range struct {
	Start Point
	End   *Point
	Text  string
	Index int
}

// Timeframe converts r into the stored node form.
func (r Range) Timeframe() model.Timeframe {
	tf := model.Timeframe{Start: r.Start.String()}
	if r.End != nil {
		tf.End = r.End.String()
	}
	return tf
}

// Find returns the first date-range expression in text. Explicit ranges win
// over "since X" which wins over a lone parenthesized date.
func Find(text string) (Range, bool) {
	if m := rangeRe.FindStringSubmatchIndex(text); m != nil {
		start, ok := Parse(text[m[2]:m[3]])
		if !ok {
			return Range{}, false
		}
		r := Range{Start: start, Text: text[m[0]:m[1]], Index: m[0]}
		endText := text[m[4]:m[5]]
		if !isPresent(endText) {
			end, ok := Parse(endText)
			if !ok || end.monthIndex(true) < start.monthIndex(false) {
				return Range{}, false
			}
			r.End = &end
		}
		return r, true
	}
	if m := sinceRe.FindStringSubmatchIndex(text); m != nil {
		start, ok := Parse(text[m[2]:m[3]])
		if !ok {
			return Range{}, false
		}
		return Range{Start: start, Text: text[m[0]:m[1]], Index: m[0]}, true
	}
	if m := parenRe.FindStringSubmatchIndex(text); m != nil {
		p, ok := Parse(text[m[2]:m[3]])
		if !ok {
			return Range{}, false
		}
		end := p
		return Range{Start: p, End: &end, Text: text[m[0]:m[1]], Index: m[0]}, true
	}
	return Range{}, false
}

// Around looks for a date range in text, then in next when next is nothing
// but a date (the "2020 - Present" line under a job title).
func Around(text, next string) (Range, bool) {
	if r, ok := Find(text); ok {
		return r, true
	}
	if next != "" && DateOnly(next) {
		return Find(next)
	}
	return Range{}, false
}

// Parse reads a single date in natural ("Mar 2021", "March, 2021"), numeric
// ("03/2021") or normalized ("2021", "2021-03") form.
func Parse(s string) (Point, bool) {
	s = strings.TrimSpace(s)
	if m := normalPointRe.FindStringSubmatch(s); m != nil {
		return point(m[1], m[2])
	}
	if m := numericPointRe.FindStringSubmatch(s); m != nil {
		return point(m[2], m[1])
	}
	if m := namedPointRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[2])
		if m[1] == "" {
			return Point{Year: year}, true
		}
		return Point{Year: year, Month: months[strings.ToLower(m[1])[:3]]}, true
	}
	return Point{}, false
}

func point(yearText, monthText string) (Point, bool) {
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return Point{}, false
	}
	month, err := strconv.Atoi(monthText)
	if err != nil || month < 1 || month > 12 {
		return Point{}, false
	}
	return Point{Year: year, Month: month}, true
}

func isPresent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "current", "now", "today", "ongoing", "date":
		return true
	}
	return false
}

// SortKey returns the ordering key of a normalized date string. An empty
// string is an open end and sorts after every concrete date.
func SortKey(s string) (int, bool) {
	if s == "" {
		return Open, true
	}
	p, ok := Parse(s)
	if !ok {
		return 0, false
	}
	return p.Key(), true
}

// Months returns the inclusive month span of tf. The end is Open when ongoing.
func Months(tf *model.Timeframe) (start, end int, ok bool) {
	if tf == nil {
		return 0, 0, false
	}
	s, ok := Parse(tf.Start)
	if !ok {
		return 0, 0, false
	}
	if tf.End == "" {
		return s.monthIndex(false), Open, true
	}
	e, ok := Parse(tf.End)
	if !ok {
		return 0, 0, false
	}
	return s.monthIndex(false), e.monthIndex(true), true
}

// Strip removes the first date expression from text together with any
// brackets around it and separators left dangling at the end.
func Strip(text string) string {
	r, ok := Find(text)
	if !ok {
		return strings.TrimSpace(text)
	}
	before := strings.TrimRight(text[:r.Index], " \t(")
	after := strings.TrimLeft(text[r.Index+len(r.Text):], " \t)")
	out := strings.TrimSpace(before + " " + after)
	return strings.TrimRightFunc(out, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(",;:|-–—•·(", r)
	})
}

// DateOnly reports whether text is nothing but a date expression, such as a
// "2020 - Present" line under a job title.
func DateOnly(text string) bool {
	if _, ok := Find(text); !ok {
		return false
	}
	for _, r := range Strip(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

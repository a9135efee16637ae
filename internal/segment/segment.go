// Package segment splits document text into the line and sentence segments
// the classifiers score.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/careermap/internal/model"
)

// Kind distinguishes a physical line from a sentence that may span lines.
type Kind int

const (
	KindLine Kind = iota
	KindSentence
)

func (k Kind) String() string {
	if k == KindSentence {
		return "sentence"
	}
	return "line"
}

// Segment is one unit of text with its position in the source document.
type Segment struct {
	Text      string // cleaned text, bullet marker removed
	Raw       string // trimmed source text
	Document  string
	DocIndex  int
	Index     int // position within the document's segments
	Kind      Kind
	FirstLine int // source line numbers covered, 0-based
	LastLine  int
	Section   string // nearest preceding header, lowercased
	Next      string // text of the following line segment, lines only
	Bullet    bool
}

// Covers reports whether the segment spans source line n.
func (s Segment) Covers(n int) bool {
	return n >= s.FirstLine && n <= s.LastLine
}

// Config bounds the work done per document.
type Config struct {
	MaxSegments      int // Segments emitted per call; the rest are dropped.
	MaxSegmentLength int // Longer segments are cut at a word boundary.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSegments:      20000,
		MaxSegmentLength: 500,
	}
}

var bulletRe = regexp.MustCompile(`^(?:[-*•·–—▪◦►‣>]|\d{1,2}[.)])\s+`)

type line struct {
	no     int
	raw    string
	text   string
	bullet bool
}

type paragraph struct {
	lines []line
}

// Normalize splits a document into line segments plus sentence segments for
// sentences that span lines or share a line with another sentence. Sentences
// are emitted right after the last line they cover. The bool reports whether
// segments were dropped to stay within cfg.MaxSegments.
func Normalize(doc model.ProcessedDocument, docIndex int, cfg Config) ([]Segment, bool) {
	if cfg.MaxSegments <= 0 {
		cfg.MaxSegments = DefaultConfig().MaxSegments
	}
	if cfg.MaxSegmentLength <= 0 {
		cfg.MaxSegmentLength = DefaultConfig().MaxSegmentLength
	}

	var (
		lines    []line
		sections = map[int]string{}
		paras    []paragraph
		current  *paragraph
		section  string
	)
	flush := func() {
		if current != nil && len(current.lines) > 0 {
			paras = append(paras, *current)
		}
		current = nil
	}

	for no, raw := range strings.Split(doc.Content, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			flush()
			continue
		}
		if name, ok := Header(raw); ok {
			flush()
			section = name
			continue
		}
		text, bullet := StripBullet(raw)
		if text == "" {
			continue
		}
		l := line{no: no, raw: raw, text: text, bullet: bullet}
		lines = append(lines, l)
		sections[no] = section
		if bullet || (current != nil && !continues(current.lines[len(current.lines)-1].text, text)) {
			flush()
		}
		if current == nil {
			current = &paragraph{}
		}
		current.lines = append(current.lines, l)
	}
	flush()

	after := make(map[int][]Segment)
	for _, p := range paras {
		for _, s := range paragraphSentences(p) {
			s.Document = doc.FileName
			s.DocIndex = docIndex
			s.Section = sections[s.FirstLine]
			s.Text = truncate(s.Text, cfg.MaxSegmentLength)
			after[s.LastLine] = append(after[s.LastLine], s)
		}
	}

	var out []Segment
	for i, l := range lines {
		seg := Segment{
			Text:      truncate(l.text, cfg.MaxSegmentLength),
			Raw:       l.raw,
			Document:  doc.FileName,
			DocIndex:  docIndex,
			Kind:      KindLine,
			FirstLine: l.no,
			LastLine:  l.no,
			Section:   sections[l.no],
			Bullet:    l.bullet,
		}
		if i+1 < len(lines) {
			seg.Next = lines[i+1].text
		}
		out = append(out, seg)
		out = append(out, after[l.no]...)
	}

	truncated := len(out) > cfg.MaxSegments
	if truncated {
		out = out[:cfg.MaxSegments]
	}
	for i := range out {
		out[i].Index = i
	}
	return out, truncated
}

// continues reports whether next carries on the paragraph ending in prev:
// prev closed a sentence, or next starts in lower case mid-sentence. A
// capitalized line after an unterminated one starts a new entry, as in
// resumes.
func continues(prev, next string) bool {
	if strings.HasSuffix(prev, ".") || strings.HasSuffix(prev, "!") || strings.HasSuffix(prev, "?") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(next)
	return unicode.IsLower(r)
}

// paragraphSentences returns the sentence segments of p that are not already
// identical to one of its lines.
func paragraphSentences(p paragraph) []Segment {
	var (
		joined strings.Builder
		starts = make([]int, len(p.lines))
	)
	for i, l := range p.lines {
		if i > 0 {
			joined.WriteByte(' ')
		}
		starts[i] = joined.Len()
		joined.WriteString(l.text)
	}
	text := joined.String()

	lineAt := func(offset int) int {
		idx := 0
		for i, s := range starts {
			if s <= offset {
				idx = i
			}
		}
		return idx
	}

	var out []Segment
	for _, sp := range sentenceSpans(text) {
		sentence := strings.TrimSpace(text[sp[0]:sp[1]])
		if sentence == "" {
			continue
		}
		first, last := lineAt(sp[0]), lineAt(sp[1]-1)
		if first == last && sentence == p.lines[first].text {
			continue
		}
		raws := make([]string, 0, last-first+1)
		for _, l := range p.lines[first : last+1] {
			raws = append(raws, l.raw)
		}
		out = append(out, Segment{
			Text:      sentence,
			Raw:       strings.Join(raws, " "),
			Kind:      KindSentence,
			FirstLine: p.lines[first].no,
			LastLine:  p.lines[last].no,
		})
	}
	return out
}

// SplitSentences does basic sentence splitting on terminal punctuation
// followed by a space.
func SplitSentences(text string) []string {
	var out []string
	for _, sp := range sentenceSpans(text) {
		if s := strings.TrimSpace(text[sp[0]:sp[1]]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func sentenceSpans(text string) [][2]int {
	var spans [][2]int
	start := 0
	for i, r := range text {
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			spans = append(spans, [2]int{start, i + 1})
			start = i + 1
		}
	}
	if start < len(text) {
		spans = append(spans, [2]int{start, len(text)})
	}
	return spans
}

// StripBullet removes a leading list marker ("-", "•", "1.") from line.
func StripBullet(line string) (string, bool) {
	if loc := bulletRe.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:]), true
	}
	return line, false
}

// Header reports whether line is a section heading such as "EXPERIENCE",
// "Skills I've developed:" or "## Projects", and returns its lowercased name.
func Header(line string) (string, bool) {
	text := strings.TrimSpace(line)
	markdown := strings.HasPrefix(text, "#")
	text = strings.TrimSpace(strings.TrimLeft(text, "#"))
	colon := strings.HasSuffix(text, ":")
	text = strings.TrimSpace(strings.TrimSuffix(text, ":"))

	if text == "" || utf8.RuneCountInString(text) > 40 || len(strings.Fields(text)) > 5 {
		return "", false
	}
	if strings.ContainsAny(text, ".!?:") {
		return "", false
	}
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters < 2 {
		return "", false
	}
	if markdown || colon || upper == letters {
		return strings.ToLower(text), true
	}
	return "", false
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)[:n]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

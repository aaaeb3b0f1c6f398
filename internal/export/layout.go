// Package export renders notes into downloadable documents.
package export

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultTitle replaces an empty note title in exported documents.
	DefaultTitle = "Untitled Note"
	// DefaultContent replaces empty note content in exported documents.
	DefaultContent = "No content"
)

// Options describes page geometry in millimetres and font sizes in points.
type Options struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	LineHeight float64
	FontSize   float64
	TitleSize  float64
}

// DefaultOptions returns A4 portrait geometry.
func DefaultOptions() Options {
	return Options{
		PageWidth:  210,
		PageHeight: 297,
		Margin:     20,
		LineHeight: 7,
		FontSize:   12,
		TitleSize:  16,
	}
}

// UsableWidth is the printable width between the side margins.
func (o Options) UsableWidth() float64 { return o.PageWidth - 2*o.Margin }

// UsableHeight is the printable height between the top and bottom margins.
func (o Options) UsableHeight() float64 { return o.PageHeight - 2*o.Margin }

// LinesPerPage is how many lines fit between the margins.
func (o Options) LinesPerPage() int {
	if o.LineHeight <= 0 {
		return 1
	}
	n := int(math.Floor(o.UsableHeight()/o.LineHeight + 1e-9))
	if n < 1 {
		return 1
	}
	return n
}

// Measurer reports the rendered width of a string in the same unit as Options.
type Measurer interface {
	StringWidth(s string) float64
}

// TitleMeasurer is implemented by measurers whose title font differs from the body font.
type TitleMeasurer interface {
	TitleWidth(s string) float64
}

type titleMetrics struct{ m TitleMeasurer }

func (t titleMetrics) StringWidth(s string) float64 { return t.m.TitleWidth(s) }

// LineKind distinguishes how a laid-out line is drawn.
type LineKind int

const (
	LineBody LineKind = iota
	LineTitle
	LineBlank
)

// Line is one positioned line of text. Y is the baseline offset from the page top.
type Line struct {
	Text string
	Kind LineKind
	Y    float64
}

// Page is an ordered set of lines.
type Page struct {
	Lines []Line
}

// Document is the paginated result of a layout.
type Document struct {
	Pages []Page
}

// LineCount returns the number of lines across all pages.
func (d Document) LineCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Lines)
	}
	return n
}

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// Paragraphs splits content on blank lines and joins each paragraph into a single line.
func Paragraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var out []string
	for _, block := range paragraphBreak.Split(content, -1) {
		joined := strings.Join(strings.Fields(block), " ")
		if joined != "" {
			out = append(out, joined)
		}
	}
	return out
}

// Wrap breaks text into lines no wider than width. Words wider than a line are split
// between runes.
func Wrap(text string, width float64, m Measurer) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if m.StringWidth(candidate) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		if m.StringWidth(word) <= width {
			current = word
			continue
		}
		pieces := breakWord(word, width, m)
		lines = append(lines, pieces[:len(pieces)-1]...)
		current = pieces[len(pieces)-1]
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// breakWord splits a single overlong word into pieces that each fit width.
// A piece always holds at least one rune.
func breakWord(word string, width float64, m Measurer) []string {
	var pieces []string
	start := 0
	for start < len(word) {
		end := start
		for end < len(word) {
			_, size := utf8.DecodeRuneInString(word[end:])
			if end > start && m.StringWidth(word[start:end+size]) > width {
				break
			}
			end += size
		}
		pieces = append(pieces, word[start:end])
		start = end
	}
	return pieces
}

// Paginate lays out the title and content on pages. The title leads the flow, then a
// blank line, then paragraphs separated by blank lines. A new page starts whenever the
// next line would cross the bottom margin.
func Paginate(title, content string, opts Options, m Measurer) Document {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	paragraphs := Paragraphs(content)
	if len(paragraphs) == 0 {
		paragraphs = []string{DefaultContent}
	}

	width := opts.UsableWidth()
	var titleM Measurer = m
	if tm, ok := m.(TitleMeasurer); ok {
		titleM = titleMetrics{tm}
	}
	var flow []Line
	for _, l := range Wrap(strings.Join(strings.Fields(title), " "), width, titleM) {
		flow = append(flow, Line{Text: l, Kind: LineTitle})
	}
	for _, p := range paragraphs {
		flow = append(flow, Line{Kind: LineBlank})
		for _, l := range Wrap(p, width, m) {
			flow = append(flow, Line{Text: l, Kind: LineBody})
		}
	}

	bottom := opts.PageHeight - opts.Margin
	doc := Document{Pages: []Page{{}}}
	y := opts.Margin
	for _, line := range flow {
		page := &doc.Pages[len(doc.Pages)-1]
		if y+opts.LineHeight > bottom+1e-9 && len(page.Lines) > 0 {
			doc.Pages = append(doc.Pages, Page{})
			page = &doc.Pages[len(doc.Pages)-1]
			y = opts.Margin
		}
		y += opts.LineHeight
		line.Y = y
		page.Lines = append(page.Lines, line)
	}
	return doc
}

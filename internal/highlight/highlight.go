// Package highlight emphasizes metric-like substrings (percentages,
// multipliers, ranges) in plain text.
package highlight

import (
	"html/template"
	"regexp"
	"strings"
)

// EmphasisClass is the class list applied to every highlighted match.
const EmphasisClass = "font-semibold text-foreground bg-muted/50 px-1 rounded-sm"

// metricPattern lists the alternatives in priority order. Go's regexp is
// leftmost-first, so a range must precede the bare percentage or
// "55% to 70%" would split into two matches.
var metricPattern = regexp.MustCompile(`(?i)` + strings.Join([]string{
	`[−-]?\d+(?:\.\d+)?%\s+to\s+[−-]?\d+(?:\.\d+)?%`, // 55% to 70%
	`[−-]?\d+(?:\.\d+)?%`,                           // 25%, −25%, 83.7%
	`\d+(?:\.\d+)?×`,                                // 3×, 1.5×
	`\d+\s+faster`,                                  // 40 faster
}, "|"))

// Highlighter wraps metric matches in an emphasis span.
type Highlighter struct {
	re    *regexp.Regexp
	open  string
	close string
}

// New returns a Highlighter that wraps matches in a span carrying class.
// An empty class falls back to EmphasisClass.
func New(class string) *Highlighter {
	if class == "" {
		class = EmphasisClass
	}
	return &Highlighter{
		re:    metricPattern,
		open:  `<span class="` + template.HTMLEscapeString(class) + `">`,
		close: `</span>`,
	}
}

var std = New(EmphasisClass)

// Highlight wraps every metric in text using the default emphasis class.
// Text without a match is returned unchanged.
func Highlight(text string) string { return std.Highlight(text) }

// HighlightHTML is the template-safe form of Highlight.
func HighlightHTML(text string) template.HTML { return std.HTML(text) }

// Highlight returns text with each non-overlapping match wrapped, left to
// right. All other bytes are copied as-is; the input is not escaped.
func (h *Highlighter) Highlight(text string) string {
	return h.wrap(text, func(s string) string { return s })
}

// HTML escapes text for HTML and wraps each match, so the result can be
// placed into a template without further escaping.
func (h *Highlighter) HTML(text string) template.HTML {
	return template.HTML(h.wrap(text, template.HTMLEscapeString))
}

// Matches reports the metric substrings found in text, in order.
func (h *Highlighter) Matches(text string) []string {
	return h.re.FindAllString(text, -1)
}

func (h *Highlighter) wrap(text string, esc func(string) string) string {
	locs := h.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return esc(text)
	}

	var b strings.Builder
	b.Grow(len(text) + len(locs)*(len(h.open)+len(h.close)))
	last := 0
	for _, loc := range locs {
		b.WriteString(esc(text[last:loc[0]]))
		b.WriteString(h.open)
		b.WriteString(esc(text[loc[0]:loc[1]]))
		b.WriteString(h.close)
		last = loc[1]
	}
	b.WriteString(esc(text[last:]))
	return b.String()
}

package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"path"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/adrg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	siteFile        = "site.yaml"
	thoughtsPattern = "thoughts/**/*.md"
	wordsPerMinute  = 200
)

// ErrDuplicateSlug is returned when two thoughts resolve to the same slug.
var ErrDuplicateSlug = errors.New("duplicate thought slug")

// dateLayouts are tried in order for the frontmatter date.
var dateLayouts = []string{"Jan 2006", "January 2006", "2006-01-02", time.RFC3339, "2006"}

//go:embed defaults
var defaults embed.FS

// Defaults returns the bundled payload.
func Defaults() fs.FS {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		panic(err) // embedded layout is fixed at build time
	}
	return sub
}

type frontMatter struct {
	Title    string   `yaml:"title"`
	Slug     string   `yaml:"slug"`
	Excerpt  string   `yaml:"excerpt"`
	Date     string   `yaml:"date"`
	ReadTime string   `yaml:"read_time"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
}

// Loader turns a payload directory into a Catalog.
type Loader struct {
	md    goldmark.Markdown
	title cases.Caser
}

// NewLoader returns a Loader with GFM, heading ids and code highlighting.
func NewLoader() *Loader {
	return &Loader{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		title: cases.Title(language.English),
	}
}

// Load reads site.yaml and every thought under fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	return NewLoader().Load(fsys)
}

// Load reads site.yaml and every thought under fsys.
func (l *Loader) Load(fsys fs.FS) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, siteFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", siteFile, err)
	}
	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", siteFile, err)
	}

	paths, err := doublestar.Glob(fsys, thoughtsPattern)
	if err != nil {
		return nil, fmt.Errorf("listing thoughts: %w", err)
	}

	cat := &Catalog{Site: site, bySlug: make(map[string]*Thought, len(paths))}
	for _, p := range paths {
		t, err := l.loadThought(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
		if prev, dup := cat.bySlug[t.Slug]; dup {
			return nil, fmt.Errorf("%w %q: %s and %s", ErrDuplicateSlug, t.Slug, prev.Source, t.Source)
		}
		cat.bySlug[t.Slug] = t
		cat.Thoughts = append(cat.Thoughts, t)
	}

	sortThoughts(cat.Thoughts)
	return cat, nil
}

func (l *Loader) loadThought(fsys fs.FS, p string) (*Thought, error) {
	raw, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}

	var buf bytes.Buffer
	if err := l.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	t := &Thought{
		Title:     fm.Title,
		Slug:      fm.Slug,
		Excerpt:   fm.Excerpt,
		DateLabel: fm.Date,
		ReadTime:  fm.ReadTime,
		Category:  fm.Category,
		Tags:      fm.Tags,
		Body:      template.HTML(buf.String()),
		Source:    p,
	}
	if t.Slug == "" {
		t.Slug = Slugify(base)
	}
	if t.Title == "" {
		t.Title = l.title.String(strings.ReplaceAll(t.Slug, "-", " "))
	}
	if t.ReadTime == "" {
		t.ReadTime = ReadTime(string(body))
	}
	if fm.Date != "" {
		d, err := parseDate(fm.Date)
		if err != nil {
			return nil, err
		}
		t.Date = d
	}
	return t, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// sortThoughts orders newest first; undated posts go last, ties by title.
func sortThoughts(ts []*Thought) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		switch {
		case a.Date.IsZero() != b.Date.IsZero():
			return b.Date.IsZero()
		case !a.Date.Equal(b.Date):
			return a.Date.After(b.Date)
		default:
			return a.Title < b.Title
		}
	})
}

// Slugify lowercases s and collapses every run of non-alphanumerics to a
// single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ReadTime estimates "N min read" for a markdown body, at least one minute.
func ReadTime(body string) string {
	words := len(strings.Fields(body))
	mins := int(math.Ceil(float64(words) / wordsPerMinute))
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("%d min read", mins)
}

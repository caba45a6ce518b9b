// Package site renders the portfolio pages and browser assets, exports
// them as a static tree and serves them for local preview.
package site

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"
	texttemplate "text/template"

	"github.com/toreleon/portfolio/internal/content"
	"github.com/toreleon/portfolio/internal/highlight"
	"github.com/toreleon/portfolio/internal/page"
	"github.com/toreleon/portfolio/internal/theme"
	"github.com/toreleon/portfolio/internal/tracker"
)

// View names.
const (
	ViewHome     = "home"
	ViewThoughts = "thoughts"
	ViewThought  = "thought"
	ViewNotFound = "notfound"
)

// ActiveNavClass marks the navigation dot of the active section.
const ActiveNavClass = "is-active"

// ErrNotFound is returned when a thought slug does not exist.
var ErrNotFound = errors.New("not found")

var (
	//go:embed templates/*.html
	templateFS embed.FS

	//go:embed assets/site.css
	stylesheet []byte

	//go:embed assets/site.js.tmpl
	scriptSource string
)

// Catalogs provides the current content catalog.
type Catalogs interface {
	Catalog() *content.Catalog
}

// Options control URLs and the initial interactive state.
type Options struct {
	// BasePath prefixes page links, e.g. "/portfolio" on a project site.
	BasePath string
	// AssetPrefix prefixes stylesheet and script URLs. Empty means
	// BasePath.
	AssetPrefix string
	// ContentDir is never removed or overwritten by Export.
	ContentDir string
	Mode        theme.Mode
	Tracker     tracker.Options
}

// Site renders pages from a catalog source. It is safe for concurrent use;
// each render builds its own page.Controller.
type Site struct {
	logger  *slog.Logger
	src     Catalogs
	opts    Options
	views   map[string]*template.Template
	script  []byte
	metrics *highlight.Highlighter
}

// New parses the embedded templates and prepares the browser script.
func New(src Catalogs, opts Options, logger *slog.Logger) (*Site, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts.BasePath = strings.TrimSuffix(opts.BasePath, "/")
	opts.AssetPrefix = strings.TrimSuffix(opts.AssetPrefix, "/")
	if opts.AssetPrefix == "" {
		opts.AssetPrefix = opts.BasePath
	}
	opts.Tracker = tracker.New(nil, opts.Tracker).Options()

	s := &Site{
		logger:  logger,
		src:     src,
		opts:    opts,
		metrics: highlight.New(highlight.EmphasisClass),
	}

	if err := s.parseViews(); err != nil {
		return nil, err
	}
	script, err := renderScript(opts.Tracker)
	if err != nil {
		return nil, err
	}
	s.script = script
	return s, nil
}

func (s *Site) funcs() template.FuncMap {
	return template.FuncMap{
		"highlight": s.metrics.HTML,
		"url":       s.URL,
		"asset":     s.Asset,
		"isLast":    func(i, n int) bool { return i == n-1 },
	}
}

func (s *Site) parseViews() error {
	base, err := template.New("").Funcs(s.funcs()).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return fmt.Errorf("parsing base template: %w", err)
	}

	s.views = make(map[string]*template.Template)
	for _, name := range []string{ViewHome, ViewThoughts, ViewThought, ViewNotFound} {
		clone, err := base.Clone()
		if err != nil {
			return fmt.Errorf("cloning base for %s: %w", name, err)
		}
		view, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return fmt.Errorf("parsing %s template: %w", name, err)
		}
		s.views[name] = view
	}
	return nil
}

// URL joins p onto the base path.
func (s *Site) URL(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return s.opts.BasePath + p
}

// Asset joins p onto the asset prefix.
func (s *Site) Asset(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return s.opts.AssetPrefix + p
}

// Script returns the generated browser script.
func (s *Site) Script() []byte { return s.script }

// Stylesheet returns the site stylesheet.
func (s *Site) Stylesheet() []byte { return stylesheet }

// Render executes view with data into w.
func (s *Site) Render(w io.Writer, view string, data any) error {
	t, ok := s.views[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("rendering %s: %w", view, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// scriptConfig is handed to the browser script as JSON.
type scriptConfig struct {
	DarkClass    string  `json:"darkClass"`
	EnteredClass string  `json:"enteredClass"`
	ActiveClass  string  `json:"activeClass"`
	Threshold    float64 `json:"threshold"`
	RootMargin   string  `json:"rootMargin"`
}

func renderScript(opts tracker.Options) ([]byte, error) {
	cfg, err := json.Marshal(scriptConfig{
		DarkClass:    theme.DarkClass,
		EnteredClass: tracker.EnteredClass,
		ActiveClass:  ActiveNavClass,
		Threshold:    opts.Threshold,
		RootMargin:   opts.RootMargin,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding script config: %w", err)
	}
	t, err := texttemplate.New("site.js").Parse(scriptSource)
	if err != nil {
		return nil, fmt.Errorf("parsing script template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, string(cfg)); err != nil {
		return nil, fmt.Errorf("rendering script: %w", err)
	}
	return buf.Bytes(), nil
}

// view is the data every template receives.
type view struct {
	Title       string
	Description string
	Page        *page.Controller
	Site        content.Site
	Thoughts    []*content.Thought
	Thought     *content.Thought
}

func (s *Site) newView(cat *content.Catalog, title string, sections []*page.Section) *view {
	return &view{
		Title:       title,
		Description: cat.Site.Profile.Summary,
		Page:        page.New(s.opts.Mode, sections, s.opts.Tracker),
		Site:        cat.Site,
		Thoughts:    cat.Thoughts,
	}
}

func (s *Site) homeView() *view {
	cat := s.src.Catalog()
	return s.newView(cat, cat.Site.Profile.FullName(), page.HomeSections(cat))
}

func (s *Site) thoughtIndexView() *view {
	cat := s.src.Catalog()
	title := cat.Site.Thoughts.Title
	if title == "" {
		title = "All Thoughts"
	}
	v := s.newView(cat, title+" · "+cat.Site.Profile.FullName(), nil)
	if cat.Site.Thoughts.Intro != "" {
		v.Description = cat.Site.Thoughts.Intro
	}
	return v
}

func (s *Site) thoughtView(slug string) (*view, error) {
	cat := s.src.Catalog()
	t, ok := cat.Thought(slug)
	if !ok {
		return nil, fmt.Errorf("thought %q: %w", slug, ErrNotFound)
	}
	v := s.newView(cat, t.Title+" · "+cat.Site.Profile.FullName(), nil)
	v.Thought = t
	if t.Excerpt != "" {
		v.Description = t.Excerpt
	}
	return v, nil
}

func (s *Site) notFoundView() *view {
	cat := s.src.Catalog()
	return s.newView(cat, "Not found · "+cat.Site.Profile.FullName(), nil)
}

// Home renders the home page.
func (s *Site) Home(w io.Writer) error {
	return s.Render(w, ViewHome, s.homeView())
}

// ThoughtIndex renders the thoughts listing.
func (s *Site) ThoughtIndex(w io.Writer) error {
	return s.Render(w, ViewThoughts, s.thoughtIndexView())
}

// Thought renders one post. It returns ErrNotFound for an unknown slug
// without writing anything.
func (s *Site) Thought(w io.Writer, slug string) error {
	v, err := s.thoughtView(slug)
	if err != nil {
		return err
	}
	return s.Render(w, ViewThought, v)
}

// NotFound renders the 404 page.
func (s *Site) NotFound(w io.Writer) error {
	return s.Render(w, ViewNotFound, s.notFoundView())
}

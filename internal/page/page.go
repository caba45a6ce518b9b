// Package page wires the per-page interactive state: one theme toggle and
// one section tracker, owned by a Controller for the lifetime of a page.
//
// At render time a Controller supplies the root classes and nav items.
// Observe drives the tracker over a Viewport; browsers get the equivalent
// behaviour from the generated site script instead.
package page

import (
	"github.com/toreleon/portfolio/internal/content"
	"github.com/toreleon/portfolio/internal/theme"
	"github.com/toreleon/portfolio/internal/tracker"
)

// Section ids used on the home page, in page order.
const (
	Intro     = "intro"
	Work      = "work"
	Education = "education"
	Thoughts  = "thoughts"
	Connect   = "connect"
)

// Section is an anchorable region of a page.
type Section struct {
	id      string
	Label   string
	classes theme.ClassList
}

// NewSection returns a section with the given fragment id.
func NewSection(id, label string) *Section {
	return &Section{id: id, Label: label}
}

func (s *Section) ID() string { return s.id }

func (s *Section) AddClass(name string) { s.classes.SetClass(name, true) }

// Class returns the classes added while the page was live.
func (s *Section) Class() string { return s.classes.String() }

// HomeSections lists the home page sections. Education is only present
// when the catalog has entries for it.
func HomeSections(cat *content.Catalog) []*Section {
	secs := []*Section{
		NewSection(Intro, "Intro"),
		NewSection(Work, "Work"),
	}
	if cat != nil && len(cat.Site.Education) > 0 {
		secs = append(secs, NewSection(Education, "Education"))
	}
	return append(secs,
		NewSection(Thoughts, "Thoughts"),
		NewSection(Connect, "Connect"),
	)
}

// NavItem is one dot of the side navigation.
type NavItem struct {
	ID     string
	Label  string
	Active bool
}

// Controller owns the mutable state of one page. It is not safe for
// concurrent use; create one per render or per browser page.
type Controller struct {
	root     *theme.ClassList
	theme    *theme.Toggle
	tracker  *tracker.Tracker
	sections []*Section
}

// New builds a controller in the given initial mode over sections.
func New(mode theme.Mode, sections []*Section, opts tracker.Options) *Controller {
	root := &theme.ClassList{}
	els := make([]tracker.Element, len(sections))
	for i, s := range sections {
		els[i] = s
	}
	return &Controller{
		root:     root,
		theme:    theme.NewToggle(root, mode),
		tracker:  tracker.New(els, opts),
		sections: sections,
	}
}

func (c *Controller) Theme() *theme.Toggle { return c.theme }

func (c *Controller) Tracker() *tracker.Tracker { return c.tracker }

// RootClass is the class attribute of the document root.
func (c *Controller) RootClass() string { return c.root.String() }

// Section returns the section with id, if registered.
func (c *Controller) Section(id string) (*Section, bool) {
	for _, s := range c.sections {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

// Nav returns the navigation items with the active one marked.
func (c *Controller) Nav() []NavItem {
	items := make([]NavItem, len(c.sections))
	for i, s := range c.sections {
		items[i] = NavItem{ID: s.id, Label: s.Label, Active: c.tracker.IsActive(s.id)}
	}
	return items
}

// Observe mounts the tracker on vp for the duration of fn. The
// observation is released when fn returns, whatever its outcome.
func (c *Controller) Observe(vp tracker.Viewport, fn func() error) error {
	if err := c.tracker.Mount(vp); err != nil {
		return err
	}
	defer c.tracker.Close()
	return fn()
}

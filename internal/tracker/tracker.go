// Package tracker follows which page section is currently in view and
// drives the side navigation indicator.
//
// A Tracker is mounted on a Viewport, which delivers intersection entries
// serially, the way a browser IntersectionObserver does. Close releases
// the observation; it is safe to call more than once and before any entry
// has arrived.
//
// The site renders with a Tracker for its section list and initial nav
// state only. In the browser the same rules run in assets/site.js, which
// is generated from this package's constants and Options; Mount, Close
// and ScrollTo are the reference model of that script and are exercised
// by tests and by non-browser hosts.
package tracker

import (
	"errors"
	"sync"
)

const (
	// EnteredClass is added to a section each time it becomes active.
	EnteredClass = "animate-fade-in-up"

	DefaultThreshold  = 0.3
	DefaultRootMargin = "0px 0px -20% 0px"
)

// ErrMounted is returned by Mount when the tracker is already mounted or
// has been closed.
var ErrMounted = errors.New("tracker: already mounted")

// ErrNoViewport is returned by Mount when given a nil Viewport.
var ErrNoViewport = errors.New("tracker: nil viewport")

// Options configure the visibility observation.
type Options struct {
	// Threshold is the visible fraction of a section at which it becomes
	// active.
	Threshold float64
	// RootMargin shrinks the viewport used for the intersection; the
	// default excludes the bottom 20%.
	RootMargin string
}

// DefaultOptions returns a 30% threshold with the bottom fifth of the
// viewport excluded.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, RootMargin: DefaultRootMargin}
}

// Element is a rendered section.
type Element interface {
	ID() string
	AddClass(name string)
}

// Entry is one visibility report for a target.
type Entry struct {
	Target            Element
	IntersectionRatio float64
	IsIntersecting    bool
}

// Observation is a live visibility observation.
type Observation interface {
	Disconnect()
}

// Viewport is the host that reports visibility and scrolls.
type Viewport interface {
	Observe(targets []Element, opts Options, fn func([]Entry)) Observation
	ScrollIntoView(target Element, smooth bool)
}

// Tracker holds the active section id for one mounted page.
type Tracker struct {
	opts     Options
	sections []Element
	byID     map[string]Element

	vp        Viewport
	obs       Observation
	active    string
	mounted   bool
	closed    bool
	closeOnce sync.Once
}

// New returns a tracker over sections, in page order. Sections with an
// empty or repeated id are skipped.
func New(sections []Element, opts Options) *Tracker {
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = DefaultThreshold
	}
	if opts.RootMargin == "" {
		opts.RootMargin = DefaultRootMargin
	}
	t := &Tracker{opts: opts, byID: make(map[string]Element, len(sections))}
	for _, s := range sections {
		if s == nil || s.ID() == "" {
			continue
		}
		if _, dup := t.byID[s.ID()]; dup {
			continue
		}
		t.byID[s.ID()] = s
		t.sections = append(t.sections, s)
	}
	return t
}

// Options returns the effective observation options.
func (t *Tracker) Options() Options { return t.opts }

// IDs returns the registered section ids in page order.
func (t *Tracker) IDs() []string {
	ids := make([]string, len(t.sections))
	for i, s := range t.sections {
		ids[i] = s.ID()
	}
	return ids
}

// Active returns the id of the most recently entered section, or "".
func (t *Tracker) Active() string { return t.active }

// IsActive reports whether id is the active section.
func (t *Tracker) IsActive(id string) bool { return id != "" && t.active == id }

// Mount starts observing every registered section on vp.
func (t *Tracker) Mount(vp Viewport) error {
	if vp == nil {
		return ErrNoViewport
	}
	if t.mounted || t.closed {
		return ErrMounted
	}
	t.mounted = true
	t.vp = vp
	t.obs = vp.Observe(t.sections, t.opts, t.handle)
	return nil
}

// Close disconnects the observation. Entries delivered afterwards are
// ignored.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		t.closed = true
		if t.obs != nil {
			t.obs.Disconnect()
			t.obs = nil
		}
	})
}

// ScrollTo asks the viewport to smoothly bring section id into view. An
// unknown id, or a tracker that is not mounted, is a no-op.
func (t *Tracker) ScrollTo(id string) {
	el, ok := t.byID[id]
	if !ok || t.vp == nil || t.closed {
		return
	}
	t.vp.ScrollIntoView(el, true)
}

// handle applies a batch in order; the last qualifying entry wins.
func (t *Tracker) handle(entries []Entry) {
	if t.closed {
		return
	}
	for _, e := range entries {
		if e.Target == nil || !e.IsIntersecting || e.IntersectionRatio < t.opts.Threshold {
			continue
		}
		el, ok := t.byID[e.Target.ID()]
		if !ok {
			continue
		}
		el.AddClass(EnteredClass)
		t.active = e.Target.ID()
	}
}

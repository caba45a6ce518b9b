// Package theme holds the dark/light display mode of a page.
package theme

import (
	"fmt"
	"strings"
)

// DarkClass is the marker placed on the root element while the dark mode
// is active. Stylesheet rules are keyed on it.
const DarkClass = "dark"

// Mode is the display mode of a page.
type Mode int

const (
	Dark Mode = iota
	Light
)

// DefaultMode is the mode every page starts in.
const DefaultMode = Dark

func (m Mode) String() string {
	switch m {
	case Dark:
		return "dark"
	case Light:
		return "light"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "dark" or "light" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "dark":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return 0, fmt.Errorf("unknown display mode %q", s)
	}
}

// Root is the element the dark marker is applied to.
type Root interface {
	SetClass(name string, on bool)
}

// Toggle owns the display mode of a single page load. It is not safe for
// concurrent use; UI events arrive serially.
type Toggle struct {
	root Root
	mode Mode
}

// NewToggle returns a Toggle in the given mode and applies the marker to
// root immediately. A nil root is allowed.
func NewToggle(root Root, initial Mode) *Toggle {
	t := &Toggle{root: root, mode: initial}
	t.apply()
	return t
}

// Mode returns the current display mode.
func (t *Toggle) Mode() Mode { return t.mode }

// IsDark reports whether the dark mode is active.
func (t *Toggle) IsDark() bool { return t.mode == Dark }

// Toggle flips between Dark and Light and returns the new mode.
func (t *Toggle) Toggle() Mode {
	if t.mode == Dark {
		t.mode = Light
	} else {
		t.mode = Dark
	}
	t.apply()
	return t.mode
}

func (t *Toggle) apply() {
	if t.root == nil {
		return
	}
	t.root.SetClass(DarkClass, t.mode == Dark)
}

// ClassList is an ordered set of class names. It implements Root for
// server-side rendering of the <html> element.
type ClassList struct {
	names []string
}

// SetClass adds or removes name.
func (c *ClassList) SetClass(name string, on bool) {
	for i, n := range c.names {
		if n == name {
			if !on {
				c.names = append(c.names[:i], c.names[i+1:]...)
			}
			return
		}
	}
	if on {
		c.names = append(c.names, name)
	}
}

// Has reports whether name is present.
func (c *ClassList) Has(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

// String renders the list as a class attribute value.
func (c *ClassList) String() string {
	return strings.Join(c.names, " ")
}

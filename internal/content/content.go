// Package content loads the immutable payload the site is rendered from:
// the profile and résumé entries in site.yaml and the markdown thoughts.
package content

import (
	"html/template"
	"time"
)

// Profile is the introduction and contact block of the home page.
type Profile struct {
	FirstName    string   `yaml:"first_name"`
	LastName     string   `yaml:"last_name"`
	Label        string   `yaml:"label"`
	Summary      string   `yaml:"summary"`
	Interests    []string `yaml:"interests"`
	Availability string   `yaml:"availability"`
	Location     string   `yaml:"location"`
	Email        string   `yaml:"email"`
	ConnectBlurb string   `yaml:"connect_blurb"`
	Copyright    string   `yaml:"copyright"`
	Credit       string   `yaml:"credit"`
}

// FullName joins the first and last name.
func (p Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Role is one "currently" entry.
type Role struct {
	Role    string `yaml:"role"`
	Company string `yaml:"company"`
	Period  string `yaml:"period"`
}

// Job is one work-history entry. Details are highlighted at render time.
type Job struct {
	Year    string   `yaml:"year"`
	Role    string   `yaml:"role"`
	Company string   `yaml:"company"`
	Details []string `yaml:"details"`
}

// Education is one education entry.
type Education struct {
	Degree      string   `yaml:"degree"`
	Institution string   `yaml:"institution"`
	Period      string   `yaml:"period"`
	Details     []string `yaml:"details"`
}

type Publication struct {
	Title    string `yaml:"title"`
	Excerpt  string `yaml:"excerpt"`
	Date     string `yaml:"date"`
	ReadTime string `yaml:"read_time"`
	URL      string `yaml:"url"`
}

type Social struct {
	Name   string `yaml:"name"`
	Handle string `yaml:"handle"`
	URL    string `yaml:"url"`
}

// Heading is a section title with a side label.
type Heading struct {
	Title  string `yaml:"title"`
	Period string `yaml:"period"`
	Intro  string `yaml:"intro"`
}

// Site is the decoded site.yaml.
type Site struct {
	Profile      Profile       `yaml:"profile"`
	Current      []Role        `yaml:"current"`
	Skills       []string      `yaml:"skills"`
	Work         Heading       `yaml:"work"`
	Jobs         []Job         `yaml:"jobs"`
	Education    []Education   `yaml:"education"`
	Publications []Publication `yaml:"publications"`
	Socials      []Social      `yaml:"socials"`
	Thoughts     Heading       `yaml:"thoughts"`
}

// Thought is one rendered post.
type Thought struct {
	Title     string
	Slug      string
	Excerpt   string
	Date      time.Time
	DateLabel string
	ReadTime  string
	Category  string
	Tags      []string
	Body      template.HTML
	Source    string
}

// Catalog is a fully loaded, read-only payload.
type Catalog struct {
	Site     Site
	Thoughts []*Thought // newest first

	bySlug map[string]*Thought
}

// Thought looks a post up by slug.
func (c *Catalog) Thought(slug string) (*Thought, bool) {
	t, ok := c.bySlug[slug]
	return t, ok
}

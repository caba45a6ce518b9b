package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSite = `
profile:
  first_name: Ada
  last_name: Lovelace
education:
  - degree: Mathematics
    institution: Home tutoring
    period: 1830 — 1835
`

func TestLoad_Defaults(t *testing.T) {
	cat, err := Load(Defaults())
	require.NoError(t, err)

	assert.Equal(t, "Thang Le Viet", cat.Site.Profile.FullName())
	assert.Len(t, cat.Site.Jobs, 5)
	assert.Len(t, cat.Site.Socials, 2)
	require.Len(t, cat.Thoughts, 4)

	// newest first
	assert.Equal(t, "future-ai-engineering-beyond-model-training", cat.Thoughts[0].Slug)
	assert.Equal(t, "legacy-to-modern-art-code-modernization", cat.Thoughts[3].Slug)

	th, ok := cat.Thought("building-agentic-systems-multi-agent-architecture")
	require.True(t, ok)
	assert.Equal(t, "Nov 2024", th.DateLabel)
	assert.Equal(t, "4 min read", th.ReadTime)
	assert.Equal(t, []string{"Multi-Agent", "Architecture", "Orchestration"}, th.Tags)
	assert.Contains(t, string(th.Body), "<strong>Communication Protocols</strong>")
	assert.Contains(t, string(th.Body), "<ol>")
}

func TestLoad_DerivedFields(t *testing.T) {
	fsys := fstest.MapFS{
		"site.yaml":                    {Data: []byte(minimalSite)},
		"thoughts/2023/Notes on Go.md": {Data: []byte("---\ndate: 2023-05-01\n---\nShort body.\n")},
		"thoughts/plain.md":            {Data: []byte("No frontmatter at all.\n")},
		"thoughts/ignored.txt":         {Data: []byte("not markdown")},
	}

	cat, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, cat.Thoughts, 2)
	assert.Len(t, cat.Site.Education, 1)

	dated := cat.Thoughts[0]
	assert.Equal(t, "notes-on-go", dated.Slug)
	assert.Equal(t, "Notes On Go", dated.Title)
	assert.Equal(t, "1 min read", dated.ReadTime)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), dated.Date)

	undated := cat.Thoughts[1]
	assert.Equal(t, "plain", undated.Slug)
	assert.True(t, undated.Date.IsZero())
}

func TestLoad_DuplicateSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"site.yaml":     {Data: []byte(minimalSite)},
		"thoughts/a.md": {Data: []byte("---\nslug: same\n---\nA\n")},
		"thoughts/b.md": {Data: []byte("---\nslug: same\n---\nB\n")},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSlug)
	assert.Contains(t, err.Error(), "thoughts/a.md")
	assert.Contains(t, err.Error(), "thoughts/b.md")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	assert.Error(t, err, "missing site.yaml")

	_, err = Load(fstest.MapFS{"site.yaml": {Data: []byte("profile: [")}})
	assert.Error(t, err, "bad yaml")

	_, err = Load(fstest.MapFS{
		"site.yaml":     {Data: []byte(minimalSite)},
		"thoughts/x.md": {Data: []byte("---\ndate: someday\n---\nx\n")},
	})
	assert.ErrorContains(t, err, "unrecognized date")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "a-b", Slugify("--a   b--"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, "1 min read", ReadTime(""))
	words := make([]byte, 0, 401*2)
	for i := 0; i < 401; i++ {
		words = append(words, 'w', ' ')
	}
	assert.Equal(t, "3 min read", ReadTime(string(words)))
}

func writeSite(t *testing.T, dir, title string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "thoughts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte(minimalSite), 0o644))
	post := "---\ntitle: " + title + "\nslug: post\n---\nbody\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "thoughts", "post.md"), []byte(post), 0o644))
}

func TestStore_ReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	writeSite(t, dir, "First")

	s, err := NewStore(dir, nil)
	require.NoError(t, err)
	th, ok := s.Catalog().Thought("post")
	require.True(t, ok)
	assert.Equal(t, "First", th.Title)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte("profile: ["), 0o644))
	assert.Error(t, s.Reload())
	th, _ = s.Catalog().Thought("post")
	assert.Equal(t, "First", th.Title)
}

func TestStore_Watch(t *testing.T) {
	dir := t.TempDir()
	writeSite(t, dir, "Before")

	s, err := NewStore(dir, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Watch(ctx, 20*time.Millisecond))

	writeSite(t, dir, "After")
	assert.Eventually(t, func() bool {
		th, ok := s.Catalog().Thought("post")
		return ok && th.Title == "After"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStore_BundledNotWatched(t *testing.T) {
	s, err := NewStore("", nil)
	require.NoError(t, err)
	assert.NoError(t, s.Watch(context.Background(), 0))
	assert.NotEmpty(t, s.Catalog().Thoughts)
}

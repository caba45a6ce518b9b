package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_DarkLightDark(t *testing.T) {
	root := &ClassList{}
	tg := NewToggle(root, DefaultMode)

	require.Equal(t, Dark, tg.Mode())
	assert.True(t, root.Has(DarkClass), "marker applied on construction")

	assert.Equal(t, Light, tg.Toggle())
	assert.Equal(t, Light, tg.Mode())
	assert.False(t, root.Has(DarkClass))

	assert.Equal(t, Dark, tg.Toggle())
	assert.True(t, tg.IsDark())
	assert.True(t, root.Has(DarkClass))
}

func TestToggle_StartLight(t *testing.T) {
	root := &ClassList{}
	tg := NewToggle(root, Light)
	assert.False(t, root.Has(DarkClass))
	assert.Equal(t, "", root.String())

	tg.Toggle()
	assert.Equal(t, "dark", root.String())
}

func TestToggle_NilRoot(t *testing.T) {
	tg := NewToggle(nil, Dark)
	assert.NotPanics(t, func() { tg.Toggle() })
	assert.Equal(t, Light, tg.Mode())
}

func TestClassList_KeepsOtherClasses(t *testing.T) {
	root := &ClassList{}
	root.SetClass("scroll-smooth", true)
	NewToggle(root, Dark)
	assert.Equal(t, "scroll-smooth dark", root.String())

	root.SetClass(DarkClass, false)
	root.SetClass(DarkClass, false)
	assert.Equal(t, "scroll-smooth", root.String())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("light")
	require.NoError(t, err)
	assert.Equal(t, Light, m)
	assert.Equal(t, "light", m.String())

	_, err = ParseMode("sepia")
	assert.Error(t, err)
}

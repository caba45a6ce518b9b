package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSection struct {
	id      string
	entered int
}

func (s *fakeSection) ID() string { return s.id }

func (s *fakeSection) AddClass(name string) {
	if name == EnteredClass {
		s.entered++
	}
}

type fakeObservation struct{ disconnects int }

func (o *fakeObservation) Disconnect() { o.disconnects++ }

type fakeViewport struct {
	targets  []Element
	opts     Options
	fn       func([]Entry)
	obs      *fakeObservation
	scrolled []string
}

func (v *fakeViewport) Observe(targets []Element, opts Options, fn func([]Entry)) Observation {
	v.targets, v.opts, v.fn = targets, opts, fn
	v.obs = &fakeObservation{}
	return v.obs
}

func (v *fakeViewport) ScrollIntoView(target Element, smooth bool) {
	if smooth {
		v.scrolled = append(v.scrolled, target.ID())
	}
}

// fire delivers entries the way a host would, even after disconnect.
func (v *fakeViewport) fire(entries ...Entry) { v.fn(entries) }

func visible(el Element, ratio float64) Entry {
	return Entry{Target: el, IntersectionRatio: ratio, IsIntersecting: true}
}

func pageSections() (map[string]*fakeSection, []Element) {
	byID := map[string]*fakeSection{}
	var els []Element
	for _, id := range []string{"intro", "work", "thoughts", "connect"} {
		s := &fakeSection{id: id}
		byID[id] = s
		els = append(els, s)
	}
	return byID, els
}

func mounted(t *testing.T) (*Tracker, *fakeViewport, map[string]*fakeSection) {
	t.Helper()
	byID, els := pageSections()
	tr := New(els, DefaultOptions())
	vp := &fakeViewport{}
	require.NoError(t, tr.Mount(vp))
	return tr, vp, byID
}

func TestTracker_MountObservesAllSections(t *testing.T) {
	tr, vp, _ := mounted(t)
	defer tr.Close()

	assert.Len(t, vp.targets, 4)
	assert.Equal(t, 0.3, vp.opts.Threshold)
	assert.Equal(t, "0px 0px -20% 0px", vp.opts.RootMargin)
	assert.Equal(t, []string{"intro", "work", "thoughts", "connect"}, tr.IDs())
	assert.Equal(t, "", tr.Active())
}

func TestTracker_ActiveLastWriteWins(t *testing.T) {
	tr, vp, byID := mounted(t)
	defer tr.Close()

	vp.fire(visible(byID["work"], 0.3))
	assert.Equal(t, "work", tr.Active())
	assert.Equal(t, 1, byID["work"].entered)

	vp.fire(visible(byID["connect"], 0.5))
	assert.Equal(t, "connect", tr.Active())
	assert.True(t, tr.IsActive("connect"))
}

func TestTracker_BatchOrder(t *testing.T) {
	tr, vp, byID := mounted(t)
	defer tr.Close()

	vp.fire(visible(byID["thoughts"], 0.6), visible(byID["intro"], 0.4))
	assert.Equal(t, "intro", tr.Active())
	assert.Equal(t, 1, byID["thoughts"].entered)
	assert.Equal(t, 1, byID["intro"].entered)
}

func TestTracker_BelowThresholdOrLeavingIgnored(t *testing.T) {
	tr, vp, byID := mounted(t)
	defer tr.Close()

	vp.fire(visible(byID["work"], 0.29))
	assert.Equal(t, "", tr.Active())

	vp.fire(Entry{Target: byID["work"], IntersectionRatio: 0.8, IsIntersecting: false})
	assert.Equal(t, "", tr.Active())
	assert.Zero(t, byID["work"].entered)
}

func TestTracker_ReenterRetriggersTransition(t *testing.T) {
	tr, vp, byID := mounted(t)
	defer tr.Close()

	vp.fire(visible(byID["work"], 0.4))
	vp.fire(visible(byID["intro"], 0.4))
	vp.fire(visible(byID["work"], 0.4))
	assert.Equal(t, "work", tr.Active())
	assert.Equal(t, 2, byID["work"].entered)
}

func TestTracker_UnregisteredTargetIgnored(t *testing.T) {
	tr, vp, _ := mounted(t)
	defer tr.Close()

	vp.fire(visible(&fakeSection{id: "footer"}, 1))
	assert.Equal(t, "", tr.Active())
}

func TestTracker_CloseStopsUpdates(t *testing.T) {
	tr, vp, byID := mounted(t)

	vp.fire(visible(byID["work"], 0.5))
	tr.Close()
	assert.Equal(t, 1, vp.obs.disconnects)

	vp.fire(visible(byID["connect"], 0.9))
	assert.Equal(t, "work", tr.Active())
	assert.Zero(t, byID["connect"].entered)

	tr.Close()
	assert.Equal(t, 1, vp.obs.disconnects, "second Close is a no-op")
}

func TestTracker_CloseBeforeAnyEntry(t *testing.T) {
	tr, vp, _ := mounted(t)
	assert.NotPanics(t, tr.Close)
	assert.Equal(t, 1, vp.obs.disconnects)
}

func TestTracker_CloseWithoutMount(t *testing.T) {
	_, els := pageSections()
	tr := New(els, DefaultOptions())
	assert.NotPanics(t, tr.Close)
	assert.ErrorIs(t, tr.Mount(&fakeViewport{}), ErrMounted)
}

func TestTracker_MountTwice(t *testing.T) {
	tr, _, _ := mounted(t)
	defer tr.Close()
	assert.ErrorIs(t, tr.Mount(&fakeViewport{}), ErrMounted)
}

func TestTracker_MountNilViewport(t *testing.T) {
	_, els := pageSections()
	tr := New(els, DefaultOptions())
	assert.ErrorIs(t, tr.Mount(nil), ErrNoViewport)

	vp := &fakeViewport{}
	require.NoError(t, tr.Mount(vp), "a rejected nil mount leaves the tracker mountable")
	tr.Close()
	assert.Equal(t, 1, vp.obs.disconnects)
}

func TestTracker_ScrollTo(t *testing.T) {
	tr, vp, byID := mounted(t)
	defer tr.Close()

	vp.fire(visible(byID["intro"], 1))
	tr.ScrollTo("connect")
	assert.Equal(t, []string{"connect"}, vp.scrolled)

	assert.NotPanics(t, func() { tr.ScrollTo("nonexistent") })
	assert.Equal(t, []string{"connect"}, vp.scrolled)
	assert.Equal(t, "intro", tr.Active())
}

func TestNew_DefaultsAndDuplicates(t *testing.T) {
	a := &fakeSection{id: "work"}
	tr := New([]Element{a, &fakeSection{id: "work"}, &fakeSection{}, nil}, Options{})
	assert.Equal(t, []string{"work"}, tr.IDs())
	assert.Equal(t, DefaultOptions(), tr.Options())
}

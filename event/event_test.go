package event

import (
	"testing"

	"github.com/sean-purcell/gbjit/cycle"
	"github.com/stretchr/testify/assert"
)

func TestDueEventsOrdering(t *testing.T) {
	cs := cycle.New()
	m := New(cs)
	m.AddEvent(SourceFrameEnd, 100)
	m.AddEvent(SourcePpu, 50)
	m.AddEvent(SourceTimer, 50)

	cs.Advance(60)
	due := m.DueEvents()
	assert.Equal(t, []Source{SourcePpu, SourceTimer}, due)
	assert.True(t, m.Pending())

	cs.Advance(50)
	due = m.DueEvents()
	assert.Equal(t, []Source{SourceFrameEnd}, due)
	assert.False(t, m.Pending())
}

func TestHardLimitTracksSoonestEvent(t *testing.T) {
	cs := cycle.New()
	m := New(cs)
	m.AddEvent(SourceFrameEnd, 200)
	m.AddEvent(SourcePpu, 100)
	raw := cs.Raw()
	assert.Equal(t, uint64(100), *raw.HardLimit)
}

package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/surveyor/internal/projection"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/response"
)

func TestProjector_LazyRecompute(t *testing.T) {
	q := threeLevel()
	tree := response.Build(q, nil)
	p := projection.NewProjector(q, tree)
	defer p.Close()

	assert.True(t, p.Dirty(), "new projector starts dirty")
	_, err := p.Items()
	require.NoError(t, err)
	_, err = p.Items()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Passes(), "clean cache must not recompute")
	assert.False(t, p.Dirty())

	// A burst of edits costs a single pass.
	require.NoError(t, tree.SetAnswer("B", questionnaire.Bool(false)))
	require.NoError(t, tree.SetAnswer("B", questionnaire.Bool(true)))
	require.NoError(t, tree.SetAnswer("A.1", questionnaire.Str("hi")))
	assert.True(t, p.Dirty())

	items, err := p.Items()
	require.NoError(t, err)
	assert.Equal(t, 2, p.Passes())
	assert.Equal(t, []string{"root", "A", "A.1", "B"}, linkIDs(items))
}

func TestProjector_ItemsAreCopies(t *testing.T) {
	q := threeLevel()
	tree := response.Build(q, nil)
	p := projection.NewProjector(q, tree)
	defer p.Close()

	items, err := p.Items()
	require.NoError(t, err)
	items[0] = projection.ViewItem{}

	again, err := p.Items()
	require.NoError(t, err)
	assert.Equal(t, "root", again[0].LinkID())
}

func TestProjector_Close(t *testing.T) {
	q := threeLevel()
	tree := response.Build(q, nil)
	p := projection.NewProjector(q, tree)
	assert.Equal(t, 1, tree.Notifier().Subscribers())

	p.Close()
	p.Close()
	assert.Equal(t, 0, tree.Notifier().Subscribers())
}

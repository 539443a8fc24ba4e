package projection

import (
	"slices"

	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/response"
)

// Projector caches the latest projection of one session. A change signal
// from the tree's notifier only marks the cache dirty; the next Items call
// recomputes. Bursts of edits therefore cost one pass, not one per edit.
type Projector struct {
	q      *questionnaire.Questionnaire
	tree   *response.Tree
	cancel func()

	dirty  bool
	items  []ViewItem
	passes int
}

// NewProjector subscribes to the tree's notifier. Call Close to unsubscribe.
func NewProjector(q *questionnaire.Questionnaire, tree *response.Tree) *Projector {
	p := &Projector{q: q, tree: tree, dirty: true}
	p.cancel = tree.Notifier().Subscribe(p.invalidate)
	return p
}

func (p *Projector) invalidate() { p.dirty = true }

// Dirty reports whether the cached projection is stale.
func (p *Projector) Dirty() bool { return p.dirty }

// Passes returns how many full projections have been computed.
func (p *Projector) Passes() int { return p.passes }

// Items returns the current projection, recomputing it if stale.
// On error the cache stays dirty.
func (p *Projector) Items() ([]ViewItem, error) {
	if p.dirty {
		items, err := Project(p.q, p.tree)
		if err != nil {
			return nil, err
		}
		p.items = items
		p.dirty = false
		p.passes++
	}
	return slices.Clone(p.items), nil
}

// Close detaches the projector from the notifier.
func (p *Projector) Close() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

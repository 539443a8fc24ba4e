// Package session ties one questionnaire definition to one response tree
// and its change signal, and exposes the editing surface the presentation
// layer drives.
//
// A session is the single logical owner of its response tree: every public
// method takes the session lock, so edits and projections never interleave.
// The definition is shared read-only with any other session over the same
// document.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HendryAvila/surveyor/internal/enablement"
	"github.com/HendryAvila/surveyor/internal/notify"
	"github.com/HendryAvila/surveyor/internal/projection"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/response"
)

var (
	// ErrHidden is returned when answering an item that is not currently presented.
	ErrHidden = errors.New("item is not currently enabled")
	// ErrIncomplete is returned by Complete while required items are unanswered.
	ErrIncomplete = errors.New("required items are unanswered")
	// ErrAborted is returned once a fatal invariant violation stopped the session.
	ErrAborted = errors.New("session aborted")
	// ErrClosed is returned after the session was completed.
	ErrClosed = errors.New("session is completed")
)

// timeNow is replaced in tests.
var timeNow = time.Now

// Session is one respondent's pass over one questionnaire.
type Session struct {
	mu sync.Mutex

	id        string
	source    string
	q         *questionnaire.Questionnaire
	notifier  *notify.Notifier
	tree      *response.Tree
	projector *projection.Projector
	log       *zap.Logger

	status    response.Status
	createdAt time.Time
	updatedAt time.Time
	fatal     error
}

// New opens a session: it mirrors the definition into a fresh response
// tree wired to a session-owned notifier. source is informational (the
// file the definition came from) and may be empty.
func New(q *questionnaire.Questionnaire, source string, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	n := notify.New()
	tree := response.Build(q, n)
	now := timeNow().UTC()
	s := &Session{
		id:        uuid.NewString(),
		source:    source,
		q:         q,
		notifier:  n,
		tree:      tree,
		projector: projection.NewProjector(q, tree),
		status:    response.StatusInProgress,
		createdAt: now,
		updatedAt: now,
	}
	s.log = log.With(zap.String("session", s.id))
	s.log.Debug("session opened",
		zap.String("questionnaire", q.Reference()),
		zap.Int("nodes", tree.Len()),
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Source returns the definition file the session was opened from.
func (s *Session) Source() string { return s.source }

// Questionnaire returns the shared definition.
func (s *Session) Questionnaire() *questionnaire.Questionnaire { return s.q }

// Status returns the lifecycle state.
func (s *Session) Status() response.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Version returns the change counter. Only useful for logging.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifier.Version()
}

// Subscribe registers fn to run after every answer change. fn runs with the
// session locked and must not call back into it; use it to schedule a
// later Visible call. The returned cancel releases the subscription.
func (s *Session) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inner := s.notifier.Subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		inner()
	}
}

// Visible returns the current projection.
func (s *Session) Visible() ([]projection.ViewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible()
}

func (s *Session) visible() ([]projection.ViewItem, error) {
	if s.fatal != nil {
		return nil, s.fatal
	}
	items, err := s.projector.Items()
	if err != nil {
		s.abort(err)
		return nil, s.fatal
	}
	return items, nil
}

// abort stops the session after an invariant violation. These errors mean
// the definition or the tree is corrupt, so nothing is repaired.
func (s *Session) abort(err error) {
	s.fatal = fmt.Errorf("%w: %w", ErrAborted, err)
	s.status = response.StatusStopped
	s.log.Error("session aborted",
		zap.Error(err),
		zap.Bool("structural_mismatch", errors.Is(err, projection.ErrStructuralMismatch)),
		zap.Bool("dangling_reference", errors.Is(err, enablement.ErrDanglingReference)),
	)
}

// Answer parses raw for the item's type, stores it and returns what the
// edit changed in the projection.
func (s *Session) Answer(linkID, raw string) (projection.Delta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, err := s.editable(linkID)
	if err != nil {
		return projection.Delta{}, err
	}
	v, err := questionnaire.ParseAnswer(def, raw)
	if err != nil {
		return projection.Delta{}, err
	}
	return s.mutate(linkID, func() error { return s.tree.SetAnswer(linkID, v) })
}

// Clear removes an answer. Hidden items may be cleared.
func (s *Session) Clear(linkID string) (projection.Delta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return projection.Delta{}, err
	}
	if _, ok := s.q.Find(linkID); !ok {
		return projection.Delta{}, fmt.Errorf("%w: %q", response.ErrUnknownItem, linkID)
	}
	return s.mutate(linkID, func() error { return s.tree.ClearAnswer(linkID) })
}

func (s *Session) writable() error {
	if s.fatal != nil {
		return s.fatal
	}
	if s.status == response.StatusCompleted {
		return ErrClosed
	}
	return nil
}

// editable returns the definition of linkID if it may be answered now.
func (s *Session) editable(linkID string) (*questionnaire.Item, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	def, ok := s.q.Find(linkID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", response.ErrUnknownItem, linkID)
	}
	items, err := s.visible()
	if err != nil {
		return nil, err
	}
	for _, v := range items {
		if v.LinkID() == linkID {
			return def, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrHidden, linkID)
}

func (s *Session) mutate(linkID string, apply func() error) (projection.Delta, error) {
	prev, err := s.visible()
	if err != nil {
		return projection.Delta{}, err
	}
	if err := apply(); err != nil {
		return projection.Delta{}, err
	}
	s.updatedAt = timeNow().UTC()
	next, err := s.visible()
	if err != nil {
		return projection.Delta{}, err
	}
	delta := projection.Diff(prev, next)
	s.log.Debug("answer changed",
		zap.String("link_id", linkID),
		zap.Uint64("version", s.notifier.Version()),
		zap.Strings("shown", delta.Shown),
		zap.Strings("hidden", delta.Hidden),
	)
	return delta, nil
}

// Missing returns the linkIds of required items that are presented but
// unanswered, in projection order. Presence is the only check.
func (s *Session) Missing() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missing()
}

func (s *Session) missing() ([]string, error) {
	items, err := s.visible()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, v := range items {
		if v.Definition.Required && v.Definition.Type.Answerable() && v.Answer == nil {
			out = append(out, v.LinkID())
		}
	}
	return out, nil
}

// Complete marks the response completed once nothing required is missing.
// Completing twice is a no-op.
func (s *Session) Complete() error {
	return s.CompleteWith(nil)
}

// CompleteWith is Complete with a commit step: the completed document is
// passed to commit first, and the session only becomes completed when
// commit succeeds. A nil commit behaves like Complete.
func (s *Session) CompleteWith(commit func(response.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fatal != nil {
		return s.fatal
	}
	if s.status == response.StatusCompleted {
		if commit == nil {
			return nil
		}
		return commit(s.document(s.status, s.updatedAt))
	}
	missing, err := s.missing()
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrIncomplete, missing)
	}

	now := timeNow().UTC()
	if commit != nil {
		if err := commit(s.document(response.StatusCompleted, now)); err != nil {
			return err
		}
	}
	s.status = response.StatusCompleted
	s.updatedAt = now
	s.log.Info("session completed", zap.Uint64("version", s.notifier.Version()))
	return nil
}

// Document snapshots the full response tree, hidden answers included.
func (s *Session) Document() response.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document(s.status, s.updatedAt)
}

func (s *Session) document(status response.Status, at time.Time) response.Document {
	return s.tree.Document(s.id, s.q.Reference(), status, at.Format(time.RFC3339))
}

// Summary is a compact view of a session for listings.
type Summary struct {
	ID            string          `json:"id"`
	Questionnaire string          `json:"questionnaire"`
	Title         string          `json:"title,omitempty"`
	Source        string          `json:"source,omitempty"`
	Status        response.Status `json:"status"`
	Version       uint64          `json:"version"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// Summary returns the session's listing entry.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:            s.id,
		Questionnaire: s.q.Reference(),
		Title:         s.q.Title,
		Source:        s.source,
		Status:        s.status,
		Version:       s.notifier.Version(),
		CreatedAt:     s.createdAt.Format(time.RFC3339),
		UpdatedAt:     s.updatedAt.Format(time.RFC3339),
	}
}

// Close releases the projector subscription.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projector.Close()
}

package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HendryAvila/surveyor/internal/enablement"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/response"
)

func contactForm() *questionnaire.Questionnaire {
	return &questionnaire.Questionnaire{
		URL:   "https://example.org/contact",
		Title: "Contact",
		Items: []*questionnaire.Item{
			{
				LinkID: "channel", Type: questionnaire.TypeChoice, Required: true,
				AnswerOption: []questionnaire.AnswerOption{{Code: "email"}, {Code: "phone"}},
			},
			{
				LinkID: "phone", Type: questionnaire.TypeString, Required: true,
				EnableWhen: []questionnaire.EnableWhen{{Question: "channel", Operator: questionnaire.OpEqual, Answer: questionnaire.Code("phone", "")}},
			},
			{LinkID: "note", Type: questionnaire.TypeDisplay, Text: "Thanks", Required: true},
		},
	}
}

func fixedClock(t *testing.T) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })
}

func TestSession_AnswerReportsDelta(t *testing.T) {
	s := New(contactForm(), "contact.yaml", zap.NewNop())

	delta, err := s.Answer("channel", "phone")
	require.NoError(t, err)
	assert.Equal(t, []string{"phone"}, delta.Shown)
	assert.Equal(t, []string{"channel"}, delta.Changed)

	delta, err = s.Answer("channel", "email")
	require.NoError(t, err)
	assert.Equal(t, []string{"phone"}, delta.Hidden)
	assert.Equal(t, uint64(2), s.Version())
}

func TestSession_HiddenItemsRejectAnswers(t *testing.T) {
	s := New(contactForm(), "", zap.NewNop())

	_, err := s.Answer("phone", "555")
	require.ErrorIs(t, err, ErrHidden)

	_, err = s.Answer("ghost", "x")
	require.ErrorIs(t, err, response.ErrUnknownItem)
	assert.Equal(t, uint64(0), s.Version())
}

func TestSession_HiddenAnswersAreKeptAndClearable(t *testing.T) {
	s := New(contactForm(), "", zap.NewNop())
	_, err := s.Answer("channel", "phone")
	require.NoError(t, err)
	_, err = s.Answer("phone", "555-0100")
	require.NoError(t, err)
	_, err = s.Answer("channel", "email")
	require.NoError(t, err)

	doc := s.Document()
	require.NotNil(t, doc.Items[1].Answer, "hidden answer must survive")
	assert.Equal(t, "555-0100", doc.Items[1].Answer.String())

	_, err = s.Clear("phone")
	require.NoError(t, err)
	assert.Nil(t, s.Document().Items[1].Answer)
}

func TestSession_MissingAndComplete(t *testing.T) {
	fixedClock(t)
	s := New(contactForm(), "", zap.NewNop())

	missing, err := s.Missing()
	require.NoError(t, err)
	assert.Equal(t, []string{"channel"}, missing, "display items are never missing")

	require.ErrorIs(t, s.Complete(), ErrIncomplete)

	_, err = s.Answer("channel", "phone")
	require.NoError(t, err)
	missing, err = s.Missing()
	require.NoError(t, err)
	assert.Equal(t, []string{"phone"}, missing)

	_, err = s.Answer("channel", "email")
	require.NoError(t, err)
	require.NoError(t, s.Complete())
	require.NoError(t, s.Complete(), "completing twice is a no-op")
	assert.Equal(t, response.StatusCompleted, s.Status())

	_, err = s.Answer("channel", "phone")
	require.ErrorIs(t, err, ErrClosed)
	_, err = s.Clear("channel")
	require.ErrorIs(t, err, ErrClosed)

	doc := s.Document()
	assert.Equal(t, response.StatusCompleted, doc.Status)
	assert.Equal(t, "https://example.org/contact", doc.Questionnaire)
	assert.Equal(t, "2024-05-01T09:30:00Z", doc.Authored)
}

func TestSession_CompleteWithFailedCommitStaysOpen(t *testing.T) {
	s := New(contactForm(), "", zap.NewNop())
	_, err := s.Answer("channel", "email")
	require.NoError(t, err)

	boom := errors.New("disk full")
	var committed response.Document
	err = s.CompleteWith(func(d response.Document) error {
		committed = d
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, response.StatusCompleted, committed.Status, "commit sees the completed document")
	assert.Equal(t, response.StatusInProgress, s.Status())

	_, err = s.Answer("channel", "phone")
	require.NoError(t, err, "session stays editable after a failed commit")

	_, err = s.Answer("phone", "555-0100")
	require.NoError(t, err)
	require.NoError(t, s.CompleteWith(func(response.Document) error { return nil }))
	assert.Equal(t, response.StatusCompleted, s.Status())
}

func TestSession_SubscribeAndCancel(t *testing.T) {
	s := New(contactForm(), "", zap.NewNop())
	calls := 0
	cancel := s.Subscribe(func() { calls++ })

	_, err := s.Answer("channel", "email")
	require.NoError(t, err)
	cancel()
	_, err = s.Answer("channel", "phone")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestSession_DanglingReferenceAborts(t *testing.T) {
	q := &questionnaire.Questionnaire{ID: "broken", Items: []*questionnaire.Item{
		{LinkID: "a", Type: questionnaire.TypeBoolean},
		{
			LinkID: "b", Type: questionnaire.TypeString,
			EnableWhen: []questionnaire.EnableWhen{{Question: "ghost", Operator: questionnaire.OpExists, Answer: questionnaire.Bool(true)}},
		},
	}}
	s := New(q, "", zap.NewNop())

	_, err := s.Visible()
	require.ErrorIs(t, err, ErrAborted)
	require.ErrorIs(t, err, enablement.ErrDanglingReference)
	assert.Equal(t, response.StatusStopped, s.Status())

	_, err = s.Answer("a", "true")
	require.True(t, errors.Is(err, ErrAborted))
	require.ErrorIs(t, s.Complete(), ErrAborted)
}

func TestSession_Summary(t *testing.T) {
	fixedClock(t)
	s := New(contactForm(), "forms/contact.yaml", zap.NewNop())
	sum := s.Summary()

	assert.Equal(t, s.ID(), sum.ID)
	assert.Equal(t, "Contact", sum.Title)
	assert.Equal(t, "forms/contact.yaml", sum.Source)
	assert.Equal(t, response.StatusInProgress, sum.Status)
	assert.Equal(t, "2024-05-01T09:30:00Z", sum.CreatedAt)
}

func TestSession_CloseReleasesProjector(t *testing.T) {
	s := New(contactForm(), "", zap.NewNop())
	require.Equal(t, 1, s.notifier.Subscribers())
	s.Close()
	assert.Equal(t, 0, s.notifier.Subscribers())
}

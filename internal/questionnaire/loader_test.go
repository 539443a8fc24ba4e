package questionnaire_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/surveyor/internal/questionnaire"
)

func TestLoadFile_YAML(t *testing.T) {
	q, err := questionnaire.LoadFile(filepath.Join("testdata", "intake.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "intake", q.ID)
	assert.Equal(t, "https://example.org/forms/intake", q.Reference())
	want := []string{"demographics", "name", "birth", "smoker", "smoking", "packs", "heavy-note"}
	if diff := cmp.Diff(want, q.LinkIDs()); diff != "" {
		t.Errorf("LinkIDs() mismatch (-want +got):\n%s", diff)
	}

	smoking, ok := q.Find("smoking")
	require.True(t, ok)
	require.Len(t, smoking.EnableWhen, 1)
	rule := smoking.EnableWhen[0]
	assert.Equal(t, "smoker", rule.Question)
	assert.Equal(t, questionnaire.OpEqual, rule.Operator)
	assert.True(t, rule.Answer.Equal(questionnaire.Bool(true)))

	note, ok := q.Find("heavy-note")
	require.True(t, ok)
	assert.True(t, note.EnableWhen[0].Answer.Equal(questionnaire.Int(2)))
}

func TestLoadFile_JSON(t *testing.T) {
	q, err := questionnaire.LoadFile(filepath.Join("testdata", "contact.json"))
	require.NoError(t, err)

	assert.Equal(t, "contact", q.Reference())
	channel, ok := q.Find("channel")
	require.True(t, ok)
	assert.Equal(t, questionnaire.TypeChoice, channel.Type)
	opt, ok := channel.Option("phone")
	require.True(t, ok)
	assert.Equal(t, "Phone", opt.Label())
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.txt")
	require.NoError(t, os.WriteFile(path, []byte("item: []"), 0o644))

	_, err := questionnaire.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported definition file")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := questionnaire.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "no items",
			doc:  `id: empty`,
			want: "Items",
		},
		{
			name: "missing linkId",
			doc: `
item:
  - type: string`,
			want: "LinkID",
		},
		{
			name: "unknown type",
			doc: `
item:
  - linkId: a
    type: slider`,
			want: `invalid item type "slider"`,
		},
		{
			name: "unknown operator",
			doc: `
item:
  - linkId: a
    type: boolean
  - linkId: b
    type: string
    enableWhen:
      - question: a
        operator: "~"
        answer: {valueBoolean: true}`,
			want: `invalid operator "~"`,
		},
		{
			name: "duplicate linkId",
			doc: `
item:
  - linkId: a
    type: group
    item:
      - linkId: a
        type: string`,
			want: `duplicate linkId "a"`,
		},
		{
			name: "display with children",
			doc: `
item:
  - linkId: d
    type: display
    item:
      - linkId: x
        type: string`,
			want: `display item "d" cannot have children`,
		},
		{
			name: "choice without options",
			doc: `
item:
  - linkId: c
    type: choice`,
			want: `choice item "c" has no answerOption`,
		},
		{
			name: "rule without answer",
			doc: `
item:
  - linkId: a
    type: boolean
  - linkId: b
    type: string
    enableWhen:
      - question: a
        operator: "="`,
			want: "answer is required",
		},
		{
			name: "rule with two answers",
			doc: `
item:
  - linkId: a
    type: integer
  - linkId: b
    type: string
    enableWhen:
      - question: a
        operator: "="
        answer: {valueInteger: 1, valueString: "1"}`,
			want: "exactly one value field",
		},
		{
			name: "exists without boolean",
			doc: `
item:
  - linkId: a
    type: string
  - linkId: b
    type: string
    enableWhen:
      - question: a
        operator: exists
        answer: {valueString: "yes"}`,
			want: "operator exists requires a valueBoolean answer",
		},
		{
			name: "null item",
			doc: `
item:
  - linkId: a
    type: string
  - ~`,
			want: `Items[1] failed "required"`,
		},
		{
			name: "null nested item",
			doc: `
item:
  - linkId: g
    type: group
    item:
      - ~`,
			want: `Items[0].Items[0] failed "required"`,
		},
		{
			name: "unknown reference",
			doc: `
item:
  - linkId: b
    type: string
    enableWhen:
      - question: ghost
        operator: exists
        answer: {valueBoolean: true}`,
			want: `references unknown linkId "ghost"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := questionnaire.Parse([]byte(tt.doc), questionnaire.FormatYAML)
			require.ErrorIs(t, err, questionnaire.ErrInvalidDefinition)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_NullItemJSON(t *testing.T) {
	doc := `{"id": "n", "item": [{"linkId": "a", "type": "string"}, null]}`
	_, err := questionnaire.Parse([]byte(doc), questionnaire.FormatJSON)
	require.ErrorIs(t, err, questionnaire.ErrInvalidDefinition)
	assert.Contains(t, err.Error(), "required")
}

func TestParse_ForwardReference(t *testing.T) {
	doc := `
item:
  - linkId: follow-up
    type: string
    enableWhen:
      - question: later
        operator: exists
        answer: {valueBoolean: true}
  - linkId: later
    type: boolean`
	_, err := questionnaire.Parse([]byte(doc), questionnaire.FormatYAML)
	require.NoError(t, err)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := questionnaire.Parse([]byte(`{"item": [`), questionnaire.FormatJSON)
	require.ErrorIs(t, err, questionnaire.ErrInvalidDefinition)
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]questionnaire.Format{
		"a.json": questionnaire.FormatJSON,
		"a.YAML": questionnaire.FormatYAML,
		"a.yml":  questionnaire.FormatYAML,
	} {
		got, err := questionnaire.FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

package projection_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/surveyor/internal/enablement"
	"github.com/HendryAvila/surveyor/internal/projection"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/response"
)

func when(question string, op questionnaire.Operator, v questionnaire.Value) []questionnaire.EnableWhen {
	return []questionnaire.EnableWhen{{Question: question, Operator: op, Answer: v}}
}

func linkIDs(items []projection.ViewItem) []string {
	ids := make([]string, len(items))
	for i, v := range items {
		ids[i] = v.LinkID()
	}
	return ids
}

// threeLevel is root group → A (enabled when B = true, with a child) → sibling B.
func threeLevel() *questionnaire.Questionnaire {
	return &questionnaire.Questionnaire{ID: "three", Items: []*questionnaire.Item{
		{LinkID: "root", Type: questionnaire.TypeGroup, Items: []*questionnaire.Item{
			{
				LinkID:     "A",
				Type:       questionnaire.TypeGroup,
				EnableWhen: when("B", questionnaire.OpEqual, questionnaire.Bool(true)),
				Items: []*questionnaire.Item{
					{LinkID: "A.1", Type: questionnaire.TypeString},
				},
			},
			{LinkID: "B", Type: questionnaire.TypeBoolean},
		}},
	}}
}

func TestProject_ThreeLevelScenario(t *testing.T) {
	q := threeLevel()
	tree := response.Build(q, nil)

	items, err := projection.Project(q, tree)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"root", "B"}, linkIDs(items)); diff != "" {
		t.Errorf("unanswered B (-want +got):\n%s", diff)
	}

	require.NoError(t, tree.SetAnswer("B", questionnaire.Bool(false)))
	items, err = projection.Project(q, tree)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"root", "B"}, linkIDs(items)); diff != "" {
		t.Errorf("B=false (-want +got):\n%s", diff)
	}

	require.NoError(t, tree.SetAnswer("B", questionnaire.Bool(true)))
	items, err = projection.Project(q, tree)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"root", "A", "A.1", "B"}, linkIDs(items)); diff != "" {
		t.Errorf("B=true (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{0, 1, 2, 1}, []int{items[0].Depth, items[1].Depth, items[2].Depth, items[3].Depth})
}

func TestProject_DisabledParentHidesSubtree(t *testing.T) {
	// child's own rule holds, but its parent's does not.
	q := &questionnaire.Questionnaire{Items: []*questionnaire.Item{
		{LinkID: "gate", Type: questionnaire.TypeBoolean},
		{
			LinkID:     "section",
			Type:       questionnaire.TypeGroup,
			EnableWhen: when("gate", questionnaire.OpEqual, questionnaire.Bool(true)),
			Items: []*questionnaire.Item{
				{LinkID: "always", Type: questionnaire.TypeString},
				{
					LinkID:     "child",
					Type:       questionnaire.TypeString,
					EnableWhen: when("gate", questionnaire.OpExists, questionnaire.Bool(true)),
				},
			},
		},
	}}
	tree := response.Build(q, nil)
	require.NoError(t, tree.SetAnswer("gate", questionnaire.Bool(false)))

	items, err := projection.Project(q, tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"gate"}, linkIDs(items))

	child, _ := q.Find("child")
	enabled, err := enablement.Evaluate(child, enablement.IndexResolver(tree.Index()))
	require.NoError(t, err)
	assert.True(t, enabled, "child's own rule should hold on its own")
}

func TestProject_Idempotent(t *testing.T) {
	q := threeLevel()
	tree := response.Build(q, nil)
	require.NoError(t, tree.SetAnswer("B", questionnaire.Bool(true)))
	require.NoError(t, tree.SetAnswer("A.1", questionnaire.Str("x")))

	first, err := projection.Project(q, tree)
	require.NoError(t, err)
	second, err := projection.Project(q, tree)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, projection.SameItem(first[i], second[i]), "position %d", i)
		assert.True(t, projection.SameContent(first[i], second[i]), "position %d", i)
	}
	assert.True(t, projection.Diff(first, second).Empty())
}

func TestProject_AnswerSnapshot(t *testing.T) {
	q := threeLevel()
	tree := response.Build(q, nil)
	require.NoError(t, tree.SetAnswer("B", questionnaire.Bool(false)))

	items, err := projection.Project(q, tree)
	require.NoError(t, err)
	require.NoError(t, tree.SetAnswer("B", questionnaire.Bool(true)))

	b := items[1]
	require.NotNil(t, b.Answer)
	assert.Equal(t, "false", b.Answer.String(), "snapshot must not follow later edits")
	live, _ := b.Response.Answer()
	assert.Equal(t, "true", live.String())
}

func TestProject_StructuralMismatch(t *testing.T) {
	tree := response.Build(threeLevel(), nil)
	other := &questionnaire.Questionnaire{Items: []*questionnaire.Item{
		{LinkID: "root", Type: questionnaire.TypeGroup, Items: []*questionnaire.Item{
			{LinkID: "A", Type: questionnaire.TypeGroup, Items: []*questionnaire.Item{
				{LinkID: "A.2", Type: questionnaire.TypeString},
			}},
			{LinkID: "B", Type: questionnaire.TypeBoolean},
		}},
	}}

	_, err := projection.Project(other, tree)
	require.ErrorIs(t, err, projection.ErrStructuralMismatch)

	var sme *projection.StructuralMismatchError
	require.True(t, errors.As(err, &sme))
	assert.Equal(t, []string{"root", "A"}, sme.Path)
	assert.Contains(t, err.Error(), `"A.2"`)
}

func TestProject_StructuralMismatchChildCount(t *testing.T) {
	tree := response.Build(threeLevel(), nil)
	other := &questionnaire.Questionnaire{Items: []*questionnaire.Item{
		{LinkID: "root", Type: questionnaire.TypeGroup},
	}}

	err := projection.CheckShape(other.Items, tree.Roots())
	require.ErrorIs(t, err, projection.ErrStructuralMismatch)
	assert.Contains(t, err.Error(), "definition has 0 children, response has 2")
}

func TestProject_DanglingReference(t *testing.T) {
	// Bypasses the loader, which would reject this definition.
	q := &questionnaire.Questionnaire{Items: []*questionnaire.Item{
		{LinkID: "x", Type: questionnaire.TypeString, EnableWhen: when("ghost", questionnaire.OpExists, questionnaire.Bool(true))},
	}}
	tree := response.Build(q, nil)

	_, err := projection.Project(q, tree)
	require.ErrorIs(t, err, enablement.ErrDanglingReference)
}

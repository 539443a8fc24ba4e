package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/HendryAvila/surveyor/internal/response"
)

// --- form_list ---

func TestListTool_Handle(t *testing.T) {
	e := setupEnv(t)
	result, err := NewListTool(e.defs).Handle(context.Background(), call(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}
	mustContain(t, getResultText(result),
		"Questionnaires (2)",
		"**contact.yaml**: Contact preferences (3 items)",
		"⚠️ **broken.json**",
	)
}

// --- form_open ---

func TestOpenTool_Handle_Success(t *testing.T) {
	e := setupEnv(t)
	result, err := NewOpenTool(e.defs, e.sessions).Handle(context.Background(), call(map[string]interface{}{
		"name": "contact.yaml",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := getResultText(result)
	mustContain(t, text, "# Contact preferences", "**Session**: `", "`channel`", "`comment`")
	if strings.Contains(text, "`phone-number`") {
		t.Errorf("hidden item listed on open:\n%s", text)
	}
	if n := len(e.sessions.List()); n != 1 {
		t.Errorf("sessions = %d, want 1", n)
	}
}

func TestOpenTool_Handle_UserErrors(t *testing.T) {
	e := setupEnv(t)
	tool := NewOpenTool(e.defs, e.sessions)
	for _, name := range []string{"", "../escape.yaml", "missing.yaml", "broken.json"} {
		result, err := tool.Handle(context.Background(), call(map[string]interface{}{"name": name}))
		if err != nil {
			t.Fatalf("%q: unexpected Go error: %v", name, err)
		}
		if !isErrorResult(result) {
			t.Errorf("%q: expected error result, got %s", name, getResultText(result))
		}
	}
	if n := len(e.sessions.List()); n != 0 {
		t.Errorf("sessions = %d, want 0", n)
	}
}

// --- form_items ---

func TestItemsTool_Handle(t *testing.T) {
	e := setupEnv(t)
	id := e.openSession(t)

	result, err := NewItemsTool(e.sessions).Handle(context.Background(), call(map[string]interface{}{
		"session_id":   id,
		"detail_level": "summary",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustContain(t, getResultText(result),
		"Enabled items (2) · status: in-progress",
		"`channel` * = —",
		"Required and unanswered: channel",
	)
}

func TestItemsTool_Handle_UnknownSession(t *testing.T) {
	e := setupEnv(t)
	tool := NewItemsTool(e.sessions)

	result, _ := tool.Handle(context.Background(), call(map[string]interface{}{"session_id": "nope"}))
	if !isErrorResult(result) {
		t.Fatal("expected error for unknown session")
	}
	mustContain(t, getResultText(result), "not found")

	result, _ = tool.Handle(context.Background(), call(nil))
	if !isErrorResult(result) {
		t.Fatal("expected error for missing session_id")
	}
}

// --- form_answer / form_clear ---

func TestAnswerTool_Handle_RevealsItems(t *testing.T) {
	e := setupEnv(t)
	id := e.openSession(t)
	tool := NewAnswerTool(e.sessions)

	result, err := tool.Handle(context.Background(), call(map[string]interface{}{
		"session_id": id, "link_id": "channel", "value": "phone",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}
	mustContain(t, getResultText(result), "Answered `channel`", "Now shown: `phone-number`")

	result, _ = tool.Handle(context.Background(), call(map[string]interface{}{
		"session_id": id, "link_id": "channel", "value": "email",
	}))
	mustContain(t, getResultText(result), "Now hidden: `phone-number`")
}

func TestAnswerTool_Handle_Rejections(t *testing.T) {
	e := setupEnv(t)
	id := e.openSession(t)
	tool := NewAnswerTool(e.sessions)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"hidden item", map[string]interface{}{"session_id": id, "link_id": "phone-number", "value": "555"}, "not currently enabled"},
		{"bad option", map[string]interface{}{"session_id": id, "link_id": "channel", "value": "fax"}, "must be one of: email, phone"},
		{"unknown item", map[string]interface{}{"session_id": id, "link_id": "ghost", "value": "x"}, "unknown item"},
		{"missing value", map[string]interface{}{"session_id": id, "link_id": "channel"}, "'value' is required"},
		{"missing link", map[string]interface{}{"session_id": id, "value": "x"}, "'link_id' is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), call(tt.args))
			if err != nil {
				t.Fatalf("unexpected Go error: %v", err)
			}
			if !isErrorResult(result) {
				t.Fatalf("expected error result, got %s", getResultText(result))
			}
			mustContain(t, getResultText(result), tt.want)
		})
	}
}

func TestClearTool_Handle_HiddenItem(t *testing.T) {
	e := setupEnv(t)
	id := e.openSession(t)
	answer := NewAnswerTool(e.sessions)
	for _, a := range [][2]string{{"channel", "phone"}, {"phone-number", "555-0100"}, {"channel", "email"}} {
		result, _ := answer.Handle(context.Background(), call(map[string]interface{}{
			"session_id": id, "link_id": a[0], "value": a[1],
		}))
		if isErrorResult(result) {
			t.Fatalf("answer %s: %s", a[0], getResultText(result))
		}
	}

	result, err := NewClearTool(e.sessions).Handle(context.Background(), call(map[string]interface{}{
		"session_id": id, "link_id": "phone-number",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("clearing a hidden item should work: %s", getResultText(result))
	}
	mustContain(t, getResultText(result), "Cleared `phone-number`", "No visibility changes.")
}

// --- form_response ---

func TestResponseTool_Handle_IncludesHiddenAnswers(t *testing.T) {
	e := setupEnv(t)
	id := e.openSession(t)
	answer := NewAnswerTool(e.sessions)
	for _, a := range [][2]string{{"channel", "phone"}, {"phone-number", "555-0100"}, {"channel", "email"}} {
		_, _ = answer.Handle(context.Background(), call(map[string]interface{}{
			"session_id": id, "link_id": a[0], "value": a[1],
		}))
	}

	result, err := NewResponseTool(e.sessions).Handle(context.Background(), call(map[string]interface{}{
		"session_id": id,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc response.Document
	if err := json.Unmarshal([]byte(getResultText(result)), &doc); err != nil {
		t.Fatalf("result is not a response document: %v", err)
	}
	if doc.ID != id {
		t.Errorf("ID = %q, want %q", doc.ID, id)
	}
	if doc.Questionnaire != "contact" {
		t.Errorf("Questionnaire = %q, want contact", doc.Questionnaire)
	}
	if got := doc.Items[1].Answer; got == nil || got.String() != "555-0100" {
		t.Errorf("hidden answer = %v, want 555-0100", got)
	}
}

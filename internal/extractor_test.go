package internal

import (
	"encoding/json"
	"testing"
)

func TestTextOf(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    string
	}{
		{"absent", Content{}, ""},
		{"string content", TextContent("hello"), ""},
		{"no text blocks", BlockContent(CreateTestThinkingBlock("x")), ""},
		{"single", BlockContent(CreateTestTextBlock("  hello  ")), "hello"},
		{
			"joined with blank line",
			BlockContent(CreateTestTextBlock("one"), CreateTestThinkingBlock("skip"), CreateTestTextBlock("two")),
			"one\n\ntwo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextOf(tt.content); got != tt.want {
				t.Errorf("TextOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThinkingOf(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    string
		wantOK  bool
	}{
		{"string content", TextContent("x"), "", false},
		{"no thinking", BlockContent(CreateTestTextBlock("x")), "", false},
		{"empty thinking", BlockContent(CreateTestThinkingBlock("")), "", true},
		{"joined", BlockContent(CreateTestThinkingBlock("a"), CreateTestThinkingBlock("b")), "a\n\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ThinkingOf(tt.content)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ThinkingOf() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToolInvocationsOf(t *testing.T) {
	content := BlockContent(
		CreateTestTextBlock("calling"),
		CreateTestToolUseBlock("t1", "Read", map[string]string{"path": "a.go"}),
		CreateTestToolUseBlock("t2", "Bash", map[string]string{"command": "ls"}),
	)

	got := ToolInvocationsOf(content)
	if len(got) != 2 {
		t.Fatalf("len(ToolInvocationsOf()) = %d, want 2", len(got))
	}
	if got[0].ToolCallID != "t1" || got[0].ToolName != "Read" || got[0].State != ToolStateCall {
		t.Errorf("first invocation = %+v", got[0])
	}
	if string(got[1].Args) != `{"command":"ls"}` {
		t.Errorf("second invocation args = %s", got[1].Args)
	}

	empty := ToolInvocationsOf(TextContent("x"))
	if empty == nil || len(empty) != 0 {
		t.Errorf("ToolInvocationsOf(text) = %v, want empty slice", empty)
	}
}

func TestToolResultsOf(t *testing.T) {
	nested, _ := json.Marshal([]map[string]string{
		{"type": "text", "text": "line one"},
		{"type": "text", "text": "line two"},
	})
	content := BlockContent(
		CreateTestToolResultBlock("t1", " ok \n"),
		ContentBlock{Type: BlockToolResult, ToolUseID: "t2", Content: nested, IsError: true},
		ContentBlock{Type: BlockToolResult, ToolUseID: "t3"},
	)

	got := ToolResultsOf(content)
	want := []ToolResult{
		{ToolUseID: "t1", Content: "ok"},
		{ToolUseID: "t2", Content: "line one\nline two", IsError: true},
		{ToolUseID: "t3", Content: ""},
	}
	if len(got) != len(want) {
		t.Fatalf("len(ToolResultsOf()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFlattenText(t *testing.T) {
	if got := FlattenText(TextContent("  raw string  ")); got != "  raw string  " {
		t.Errorf("FlattenText(string) = %q, want it unchanged", got)
	}
	if got := FlattenText(BlockContent(CreateTestTextBlock("a"), CreateTestTextBlock("b"))); got != "a\n\nb" {
		t.Errorf("FlattenText(blocks) = %q", got)
	}
	if got := FlattenText(Content{}); got != "" {
		t.Errorf("FlattenText(absent) = %q", got)
	}
}

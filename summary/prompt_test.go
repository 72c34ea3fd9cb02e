package summary

import (
	"strings"
	"testing"

	"github.com/rollctx/rollctx/transcript"
)

func TestFormatRecordsAsText(t *testing.T) {
	records := []*transcript.Record{
		textRecord(t, "u-0", "user", "2026-08-01T09:00:00Z", "run the tests"),
		textRecord(t, "u-1", "assistant", "2026-08-01T09:01:00Z", "on it"),
		// Blocks with no text are dropped.
		mustParse(t, `{"uuid":"u-2","type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"toolu_1","name":"bash","input":{}}]}}`),
	}

	got := FormatRecordsAsText(records)
	want := "[user]: run the tests\n\n[assistant]: on it"
	if got != want {
		t.Errorf("FormatRecordsAsText = %q, want %q", got, want)
	}
}

func TestFormatRecordsAsText_TextBlocks(t *testing.T) {
	records := []*transcript.Record{
		mustParse(t, `{"uuid":"u-0","type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"part one"},{"type":"text","text":"part two"}]}}`),
	}
	got := FormatRecordsAsText(records)
	if !strings.Contains(got, "part one") || !strings.Contains(got, "part two") {
		t.Errorf("text blocks not joined: %q", got)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt(PromptData{
		ProjectName:  "demo",
		RecordCount:  12,
		Conversation: "[user]: hi",
	})
	for _, want := range []string{"12 messages", "demo", "<conversation>", "[user]: hi", "</conversation>"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestRenderTemplate(t *testing.T) {
	got, err := RenderTemplate(
		"Summarize {{.RecordCount}} messages from {{.ProjectName}}:\n{{.Conversation}}",
		PromptData{ProjectName: "demo", RecordCount: 3, Conversation: "[user]: hi"},
	)
	if err != nil {
		t.Fatalf("RenderTemplate failed: %v", err)
	}
	want := "Summarize 3 messages from demo:\n[user]: hi"
	if got != want {
		t.Errorf("RenderTemplate = %q, want %q", got, want)
	}
}

func TestRenderTemplate_Errors(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
	}{
		{"parse error", "{{.RecordCount"},
		{"unknown field", "{{.NoSuchField}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderTemplate(tt.tmpl, PromptData{}); err == nil {
				t.Error("RenderTemplate succeeded, want error")
			}
		})
	}
}

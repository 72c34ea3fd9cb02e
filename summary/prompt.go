package summary

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/rollctx/rollctx/transcript"
)

// SystemPrompt is the system prompt used for transcript summarization.
// It instructs the model to produce a summary that can stand in for the
// archived segment when the conversation continues.
const SystemPrompt = `You are a conversation archivist. A segment of an ongoing conversation is being archived and replaced with your summary. Whoever continues the conversation will see your summary instead of the original messages.

Write a summary with these sections:

1. **What Happened**
   - The main goals pursued in this segment and their outcomes
   - Decisions made and the reasoning behind them
   - Specific details worth keeping (names, paths, identifiers, error messages)

2. **Carry Forward**
   - Unfinished threads and open questions
   - Constraints or preferences established earlier that still apply

3. **Current State**
   - Where things stand at the end of the segment
   - The immediate next step, if one was agreed

Guidelines:
- Be concise but complete; preserve everything needed to continue seamlessly
- Keep chronological order within each section
- Quote the user verbatim where exact wording conveys intent
- Do not invent information that is not in the conversation`

// PromptData is the data available to a user-supplied prompt template.
type PromptData struct {
	ProjectName  string
	RecordCount  int
	Conversation string
}

// BuildUserPrompt renders the default user prompt for a summarization
// request.
func BuildUserPrompt(data PromptData) string {
	return fmt.Sprintf(`The following %d messages from the %s conversation are being archived. Summarize them according to the format in your instructions.

<conversation>
%s
</conversation>`, data.RecordCount, data.ProjectName, data.Conversation)
}

// RenderTemplate renders a user-supplied prompt template. Templates use
// text/template syntax with .ProjectName, .RecordCount, and .Conversation.
func RenderTemplate(tmpl string, data PromptData) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse summary prompt template: %w", err)
	}
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render summary prompt template: %w", err)
	}
	return buf.String(), nil
}

// FormatRecordsAsText converts records to role-labelled plain text for
// summarization. Records with no extractable text are omitted.
func FormatRecordsAsText(records []*transcript.Record) string {
	var parts []string
	for _, rec := range records {
		text := strings.TrimSpace(rec.Text())
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s]: %s", rec.MessageRole(), text))
	}
	return strings.Join(parts, "\n\n")
}

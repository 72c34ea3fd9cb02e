package trim

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rollctx/rollctx/transcript"
)

// Test record builders. Record lines mirror the on-disk transcript
// format: uuid, parentUuid, type, timestamp, message content blocks.

func textLine(id, parent, role, ts, text string) string {
	parentJSON := "null"
	if parent != "" {
		parentJSON = fmt.Sprintf("%q", parent)
	}
	return fmt.Sprintf(`{"parentUuid":%s,"type":%q,"uuid":%q,"timestamp":%q,"sessionId":"sess-1","message":{"role":%q,"content":[{"type":"text","text":%q}]}}`,
		parentJSON, role, id, ts, role, text)
}

func toolUseLine(id, parent, ts, toolID string) string {
	parentJSON := "null"
	if parent != "" {
		parentJSON = fmt.Sprintf("%q", parent)
	}
	return fmt.Sprintf(`{"parentUuid":%s,"type":"assistant","uuid":%q,"timestamp":%q,"message":{"role":"assistant","content":[{"type":"tool_use","id":%q,"name":"run"}]}}`,
		parentJSON, id, ts, toolID)
}

func toolResultLine(id, parent, ts, toolID string) string {
	parentJSON := "null"
	if parent != "" {
		parentJSON = fmt.Sprintf("%q", parent)
	}
	return fmt.Sprintf(`{"parentUuid":%s,"type":"user","uuid":%q,"timestamp":%q,"message":{"role":"user","content":[{"type":"tool_result","tool_use_id":%q,"content":"done"}]}}`,
		parentJSON, id, ts, toolID)
}

func parseLine(t *testing.T, line string) *transcript.Record {
	t.Helper()
	rec, err := transcript.Parse([]byte(line))
	if err != nil {
		t.Fatalf("parse test record: %v", err)
	}
	return rec
}

// chainLines builds n text records forming a parent chain u-0 <- u-1 <- ...
func chainLines(n int) []string {
	lines := make([]string, n)
	for i := 0; i < n; i++ {
		parent := ""
		if i > 0 {
			parent = fmt.Sprintf("u-%d", i-1)
		}
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		ts := fmt.Sprintf("2026-08-%02dT10:00:00Z", i%28+1)
		lines[i] = textLine(fmt.Sprintf("u-%d", i), parent, role, ts, fmt.Sprintf("message %d", i))
	}
	return lines
}

func parseLines(t *testing.T, lines []string) []*transcript.Record {
	t.Helper()
	records := make([]*transcript.Record, len(lines))
	for i, line := range lines {
		records[i] = parseLine(t, line)
	}
	return records
}

func writeTranscript(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	var content string
	for _, line := range lines {
		content += line + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

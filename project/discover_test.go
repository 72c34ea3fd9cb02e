package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rollctx/rollctx/config"
)

func testConfig(projectsDir string) *config.Config {
	return &config.Config{
		ProjectsDir: projectsDir,
		Projects:    map[string]string{"api": "-srv-api"},
		MaxMessages: 3,
	}
}

func writeAt(t *testing.T, path string, content string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func recordLine(i int) string {
	return fmt.Sprintf(`{"uuid":"u-%d","type":"user","timestamp":"2026-08-%02dT10:00:00Z","message":{"role":"user","content":"m"}}`, i, i+1) + "\n"
}

func TestDir(t *testing.T) {
	cfg := testConfig("/srv/transcripts")

	got, err := Dir(cfg, "api")
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if want := filepath.Join("/srv/transcripts", "-srv-api"); got != want {
		t.Errorf("Dir = %q, want %q", got, want)
	}

	if _, err := Dir(cfg, "nope"); !errors.Is(err, ErrUnknownProject) {
		t.Errorf("unknown project error = %v, want ErrUnknownProject", err)
	}
}

func TestFindTranscript(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	writeAt(t, filepath.Join(dir, "old.jsonl"), recordLine(0), base)
	writeAt(t, filepath.Join(dir, "live.jsonl"), recordLine(1), base.Add(time.Hour))
	// Agent sidechains and foreign files are skipped even when newer.
	writeAt(t, filepath.Join(dir, "agent-task.jsonl"), recordLine(2), base.Add(2*time.Hour))
	writeAt(t, filepath.Join(dir, "notes.txt"), "x", base.Add(3*time.Hour))

	got, err := FindTranscript(dir)
	if err != nil {
		t.Fatalf("FindTranscript failed: %v", err)
	}
	if want := filepath.Join(dir, "live.jsonl"); got != want {
		t.Errorf("FindTranscript = %q, want %q", got, want)
	}
}

func TestFindTranscript_Empty(t *testing.T) {
	tests := []struct {
		name string
		dir  func(t *testing.T) string
	}{
		{"missing dir", func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent") }},
		{"no jsonl files", func(t *testing.T) string {
			dir := t.TempDir()
			writeAt(t, filepath.Join(dir, "notes.txt"), "x", time.Now())
			return dir
		}},
		{"only agent sidechains", func(t *testing.T) string {
			dir := t.TempDir()
			writeAt(t, filepath.Join(dir, "agent-task.jsonl"), recordLine(0), time.Now())
			return dir
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FindTranscript(tt.dir(t)); !errors.Is(err, ErrNoTranscript) {
				t.Errorf("error = %v, want ErrNoTranscript", err)
			}
		})
	}
}

func TestStatuses(t *testing.T) {
	root := t.TempDir()
	apiDir := filepath.Join(root, "-srv-api")
	if err := os.MkdirAll(apiDir, 0o755); err != nil {
		t.Fatal(err)
	}

	var lines string
	for i := 0; i < 5; i++ {
		lines += recordLine(i)
	}
	writeAt(t, filepath.Join(apiDir, "session.jsonl"), lines, time.Now())

	cfg := testConfig(root)
	cfg.Projects["empty"] = "-srv-empty"

	statuses := Statuses(cfg)
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}

	// Sorted by name: api before empty.
	api := statuses[0]
	if api.Name != "api" {
		t.Fatalf("statuses[0].Name = %q, want api", api.Name)
	}
	if api.Err != nil {
		t.Fatalf("api status error: %v", api.Err)
	}
	if api.Records != 5 {
		t.Errorf("api Records = %d, want 5", api.Records)
	}
	if !api.NeedsTrim {
		t.Error("api NeedsTrim = false, want true (5 > 3)")
	}
	if api.FirstDate != "2026-08-01" || api.LastDate != "2026-08-05" {
		t.Errorf("date range = %s..%s, want 2026-08-01..2026-08-05", api.FirstDate, api.LastDate)
	}

	empty := statuses[1]
	if empty.Name != "empty" {
		t.Fatalf("statuses[1].Name = %q, want empty", empty.Name)
	}
	if !errors.Is(empty.Err, ErrNoTranscript) {
		t.Errorf("empty project error = %v, want ErrNoTranscript", empty.Err)
	}
}

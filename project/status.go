package project

import (
	"sort"

	"github.com/rollctx/rollctx/config"
	"github.com/rollctx/rollctx/transcript"
)

// Status describes one project's live transcript.
type Status struct {
	// Name is the configured project name.
	Name string

	// Path is the live transcript file, when found.
	Path string

	// Records is the record count.
	Records int

	// FirstDate and LastDate bound the transcript's date range.
	FirstDate string
	LastDate  string

	// NeedsTrim is true when the record count exceeds the configured
	// threshold.
	NeedsTrim bool

	// Err holds any discovery or parse failure for this project.
	Err error
}

// Statuses reports the state of every configured project, ordered by name.
func Statuses(cfg *config.Config) []Status {
	names := make([]string, 0, len(cfg.Projects))
	for name := range cfg.Projects {
		names = append(names, name)
	}
	sort.Strings(names)

	statuses := make([]Status, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, statusOf(cfg, name))
	}
	return statuses
}

func statusOf(cfg *config.Config, name string) Status {
	st := Status{Name: name}

	dir, err := Dir(cfg, name)
	if err != nil {
		st.Err = err
		return st
	}

	st.Path, err = FindTranscript(dir)
	if err != nil {
		st.Err = err
		return st
	}

	records, err := transcript.ReadFile(st.Path)
	if err != nil {
		st.Err = err
		return st
	}

	st.Records = len(records)
	st.NeedsTrim = len(records) > cfg.MaxMessages
	if len(records) > 0 {
		st.FirstDate = records[0].Date()
		st.LastDate = records[len(records)-1].Date()
	}
	return st
}

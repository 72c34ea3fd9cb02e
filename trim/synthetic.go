package trim

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rollctx/rollctx/transcript"
)

// syntheticVersion marks records generated by this engine so future runs
// can recognize them.
const syntheticVersion = "rollctx/1"

type syntheticBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type syntheticMessage struct {
	Role    string           `json:"role"`
	Content []syntheticBlock `json:"content"`
}

type syntheticEnvelope struct {
	ParentUUID *string          `json:"parentUuid"`
	UserType   string           `json:"userType"`
	CWD        string           `json:"cwd,omitempty"`
	SessionID  string           `json:"sessionId,omitempty"`
	Type       string           `json:"type"`
	Synthetic  bool             `json:"synthetic"`
	Version    string           `json:"version"`
	Message    syntheticMessage `json:"message"`
	UUID       string           `json:"uuid"`
	Timestamp  string           `json:"timestamp"`
}

// newSyntheticRecord builds the summary record spliced in at the trim
// boundary. Session identity and working directory are carried over from
// the retained records, falling back to the removed ones, so downstream
// consumers keep associating the record with the right session.
func newSyntheticRecord(removed, kept []*transcript.Record, summaryText string, now time.Time) (*transcript.Record, error) {
	firstDate := "unknown"
	lastDate := "unknown"
	if len(removed) > 0 {
		firstDate = removed[0].Date()
		lastDate = removed[len(removed)-1].Date()
	}

	sessionID, cwd := carriedSession(kept, removed)

	text := fmt.Sprintf(`=== ARCHIVED CONTEXT ===
%d messages archived (%s to %s)

%s

=== CONVERSATION CONTINUES ===`, len(removed), firstDate, lastDate, summaryText)

	env := syntheticEnvelope{
		ParentUUID: summaryParent(removed),
		UserType:   "system",
		CWD:        cwd,
		SessionID:  sessionID,
		Type:       string(transcript.RoleSyntheticSummary),
		Synthetic:  true,
		Version:    syntheticVersion,
		Message: syntheticMessage{
			Role:    "user",
			Content: []syntheticBlock{{Type: "text", Text: text}},
		},
		UUID:      uuid.New().String(),
		Timestamp: now.UTC().Format(time.RFC3339),
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal synthetic record: %w", err)
	}
	return transcript.Parse(raw)
}

// summaryParent resolves the synthetic record's own parent reference: the
// parent chain of the last removed record is walked upward within the
// removed range, and the chain root's reference is adopted. A chain that
// roots inside the removal yields null.
func summaryParent(removed []*transcript.Record) *string {
	if len(removed) == 0 {
		return nil
	}

	byUUID := make(map[string]*transcript.Record, len(removed))
	for _, rec := range removed {
		byUUID[rec.UUID] = rec
	}

	cur := removed[len(removed)-1]
	for range removed {
		if cur.ParentUUID == "" {
			return nil
		}
		parent, ok := byUUID[cur.ParentUUID]
		if !ok {
			// Chain escapes the removed range; keep that reference.
			ref := cur.ParentUUID
			return &ref
		}
		cur = parent
	}
	// Cycle guard tripped; treat as rootless.
	return nil
}

// carriedSession picks sessionId and cwd from the retained records first
// (more reliable), falling back to the removed ones.
func carriedSession(kept, removed []*transcript.Record) (sessionID, cwd string) {
	for _, rec := range kept {
		if id := rec.StringField("sessionId"); id != "" {
			return id, rec.StringField("cwd")
		}
	}
	for _, rec := range removed {
		if id := rec.StringField("sessionId"); id != "" {
			return id, rec.StringField("cwd")
		}
	}
	return "", ""
}

// repairParents rewrites the parent reference of every retained record
// whose parent was removed so it points at the synthetic record instead.
// This is a one-hop rewrite; retained-to-retained ancestry is untouched.
func repairParents(kept []*transcript.Record, synthetic *transcript.Record) error {
	retained := make(map[string]bool, len(kept)+1)
	retained[synthetic.UUID] = true
	for _, rec := range kept {
		retained[rec.UUID] = true
	}

	for _, rec := range kept {
		if rec.ParentUUID == "" || retained[rec.ParentUUID] {
			continue
		}
		if err := rec.SetParentUUID(synthetic.UUID); err != nil {
			return err
		}
	}
	return nil
}

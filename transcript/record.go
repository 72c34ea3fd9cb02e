package transcript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrMalformedRecord indicates a transcript line that is not valid
// structured data or is missing its identity field. The engine treats this
// as fatal for the whole operation: dependency resolution needs a complete,
// correctly ordered view of the log.
var ErrMalformedRecord = errors.New("malformed transcript record")

// Role is the origin tag of a record.
type Role string

const (
	// RoleUser marks a record produced by the user side of the conversation.
	RoleUser Role = "user"

	// RoleAssistant marks a record produced by the assistant.
	RoleAssistant Role = "assistant"

	// RoleSyntheticSummary marks a machine-generated summary record
	// inserted at a trim boundary.
	RoleSyntheticSummary Role = "synthetic-summary"
)

// Record is one entry of a transcript log. The structural fields are
// extracted at parse time; the raw line is retained so unrecognized fields
// round-trip byte-for-byte.
type Record struct {
	// UUID is the record's opaque identifier, assigned by the upstream
	// producer and immutable here.
	UUID string

	// ParentUUID references another record's UUID, or is empty for a root.
	ParentUUID string

	// Role is the record's origin tag (top-level "type" field on disk).
	Role Role

	// Timestamp is the creation time string, used for reporting only.
	Timestamp string

	// ToolUseIDs holds the correlation identifiers of every
	// tool-invocation content block in this record.
	ToolUseIDs []string

	// ToolResultFor is the correlation identifier a tool-result content
	// block in this record answers, or empty.
	ToolResultFor string

	raw []byte
}

// Parse parses one transcript line into a Record.
func Parse(line []byte) (*Record, error) {
	if !gjson.ValidBytes(line) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedRecord)
	}

	root := gjson.ParseBytes(line)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedRecord)
	}

	id := root.Get("uuid").String()
	if id == "" {
		return nil, fmt.Errorf("%w: missing uuid", ErrMalformedRecord)
	}

	rec := &Record{
		UUID:       id,
		ParentUUID: root.Get("parentUuid").String(),
		Role:       Role(root.Get("type").String()),
		Timestamp:  root.Get("timestamp").String(),
		raw:        append([]byte(nil), line...),
	}

	content := root.Get("message.content")
	if content.IsArray() {
		content.ForEach(func(_, block gjson.Result) bool {
			switch block.Get("type").String() {
			case "tool_use":
				if id := block.Get("id").String(); id != "" {
					rec.ToolUseIDs = append(rec.ToolUseIDs, id)
				}
			case "tool_result":
				if id := block.Get("tool_use_id").String(); id != "" {
					rec.ToolResultFor = id
				}
			}
			return true
		})
	}

	return rec, nil
}

// Raw returns the record's current serialized form, including any applied
// parent rewrite. Callers must not mutate the returned slice.
func (r *Record) Raw() []byte {
	return r.raw
}

// SetParentUUID rewrites the record's parent reference in place. All other
// fields of the stored line are left untouched.
func (r *Record) SetParentUUID(id string) error {
	raw, err := sjson.SetBytes(r.raw, "parentUuid", id)
	if err != nil {
		return fmt.Errorf("rewrite parentUuid: %w", err)
	}
	r.raw = raw
	r.ParentUUID = id
	return nil
}

// Text extracts the plain-text content of the record for summarization.
// String-form content is returned as-is; block-form content joins the text
// blocks with newlines. Tool blocks are excluded.
func (r *Record) Text() string {
	content := gjson.GetBytes(r.raw, "message.content")
	if content.Type == gjson.String {
		return content.String()
	}

	var parts []string
	if content.IsArray() {
		content.ForEach(func(_, block gjson.Result) bool {
			if block.Get("type").String() == "text" {
				if text := block.Get("text").String(); text != "" {
					parts = append(parts, text)
				}
			}
			return true
		})
	}
	return strings.Join(parts, "\n")
}

// MessageRole returns the role label inside the message payload, falling
// back to the record's top-level role tag.
func (r *Record) MessageRole() string {
	if role := gjson.GetBytes(r.raw, "message.role").String(); role != "" {
		return role
	}
	return string(r.Role)
}

// StringField returns the string value at the given gjson path of the raw
// record, or empty when absent.
func (r *Record) StringField(path string) string {
	return gjson.GetBytes(r.raw, path).String()
}

// IsSynthetic reports whether this record was machine-generated by a prior
// trim. Synthetic records carry a marker field so future runs can
// recognize them.
func (r *Record) IsSynthetic() bool {
	return gjson.GetBytes(r.raw, "synthetic").Bool() || r.Role == RoleSyntheticSummary
}

// Date returns the calendar-date prefix of the record's timestamp, or
// "unknown" when the record carries no timestamp.
func (r *Record) Date() string {
	if len(r.Timestamp) >= 10 {
		return r.Timestamp[:10]
	}
	if r.Timestamp == "" {
		return "unknown"
	}
	return r.Timestamp
}

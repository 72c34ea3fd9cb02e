package summary

import (
	"context"
	"errors"

	"github.com/rollctx/rollctx/transcript"
)

// ErrSummarizationFailed indicates the remote summary call failed
// (timeout, transport error, non-success response, or an empty result).
// Callers recover from it by substituting the fallback provider's output.
var ErrSummarizationFailed = errors.New("summarization failed")

// Context carries the invocation metadata a provider may interpolate into
// its prompt or template.
type Context struct {
	// ProjectName names the project the transcript belongs to.
	ProjectName string

	// RecordCount is the number of records being summarized.
	RecordCount int
}

// Provider produces a condensed text description of a range of records.
type Provider interface {
	Summarize(ctx context.Context, records []*transcript.Record, sctx Context) (string, error)
}

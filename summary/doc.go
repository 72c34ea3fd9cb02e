// Package summary produces condensed text descriptions of transcript
// record ranges that are about to be removed by a trim.
//
// Two Provider implementations exist behind one interface:
//
//   - AnthropicProvider: sends the role-labelled plain text of the records
//     to the Anthropic API with a bounded timeout and returns the model's
//     response verbatim.
//
//   - FallbackProvider: deterministic and offline, it renders a fixed
//     template from the record count, per-role counts, and the date range.
//
// The trimming engine treats any remote failure as a signal to substitute
// the fallback output; summary generation is never fatal to a trim.
// Additional providers are additional implementations of the same
// interface, never special cases in the engine.
package summary

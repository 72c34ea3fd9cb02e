// Package trim implements the dependency-aware trimming engine for
// transcript logs.
//
// A trim removes the oldest prefix of a transcript, splices in one
// machine-generated summary record, and repairs the parent references of
// the retained records. The OrphanDetector resolves the requested cut
// index to the nearest safe boundary that splits no tool-invocation/
// tool-result pair; it only ever shrinks the removed range, never grows
// it.
//
// # State machine
//
// The engine moves through Loaded, PlanComputed, CutResolved, Summarized,
// Spliced, BackedUp, Written, Done, with Aborted reachable from any state
// before Written. The write is an atomic rename, so a completed write
// cannot fail afterwards. Dry runs stop after Spliced and report the same
// plan a real run would produce. Every fatal error names the state it
// occurred in, and the live file is byte-identical to its pre-invocation
// content on every failure path.
//
// # Summary degradation
//
// Remote summarization failures are never fatal: the engine substitutes
// the deterministic fallback provider's output and continues.
package trim

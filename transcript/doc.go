// Package transcript provides the record model for newline-delimited
// transcript logs.
//
// Each line of a transcript file is one Record. Records are parsed for the
// structural fields the trimming engine needs (identity, parent reference,
// role, tool correlation identifiers, timestamp) while the original line
// bytes are kept verbatim. Fields this package does not recognize survive
// a parse/marshal round trip unchanged; only an explicit parent rewrite
// touches the stored bytes, and it does so surgically via sjson so the
// rest of the line is preserved.
//
// Sequence position in the file is the authoritative order. Timestamps are
// carried for reporting only.
package transcript

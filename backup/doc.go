// Package backup owns the pre-trim safety net for live transcript files:
// timestamped snapshots, atomic replacement of the live file, snapshot
// retention, and the advisory lock that serializes mutation against an
// external writer.
//
// Snapshots live in a ".backups" directory next to the live file, one file
// per snapshot, with a sortable timestamp in the name. Replacement writes
// to a temporary file in the live file's directory and renames it into
// place, so a crash mid-write never leaves a truncated live file.
package backup

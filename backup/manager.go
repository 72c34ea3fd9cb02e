package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Sentinel errors for backup operations.
var (
	// ErrSnapshotFailed indicates the pre-trim snapshot could not be
	// created. The live file is untouched when this occurs.
	ErrSnapshotFailed = errors.New("backup snapshot failed")

	// ErrReplaceFailed indicates the atomic replacement of the live file
	// failed. The rename discipline guarantees the live file still holds
	// its prior content.
	ErrReplaceFailed = errors.New("transcript replace failed")
)

// DirName is the snapshot directory created next to the live file.
const DirName = ".backups"

// timestampFormat is the sortable timestamp embedded in snapshot names.
const timestampFormat = "20060102_150405"

// snapshotStampRE extracts the timestamp portion of a snapshot filename.
var snapshotStampRE = regexp.MustCompile(`_(\d{8}_\d{6})\.jsonl$`)

// Handle identifies a created snapshot.
type Handle struct {
	// Path is the snapshot file location.
	Path string

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time
}

// Manager creates snapshots, replaces live files atomically, and enforces
// the snapshot retention count.
type Manager struct {
	keep int

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates a Manager that retains up to keep snapshots per
// backup directory.
func NewManager(keep int) *Manager {
	return &Manager{keep: keep, now: time.Now}
}

// Dir returns the backup directory for the live file at path.
func (m *Manager) Dir(path string) string {
	return filepath.Join(filepath.Dir(path), DirName)
}

// Snapshot copies the live file at path into its backup directory under a
// timestamped name. The copy is byte-identical to the source.
func (m *Manager) Snapshot(path string) (*Handle, error) {
	dir := m.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotFailed, err)
	}

	now := m.now()
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dst := filepath.Join(dir, fmt.Sprintf("%s_%s.jsonl", stem, now.Format(timestampFormat)))

	if err := copyFile(path, dst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotFailed, err)
	}

	return &Handle{Path: dst, CreatedAt: now}, nil
}

// Replace atomically replaces the file at path with content. It writes to
// a temporary file in the same directory, syncs it, and renames it into
// place; on any failure the live file keeps its prior content.
func (m *Manager) Replace(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".rollctx-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReplaceFailed, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrReplaceFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrReplaceFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrReplaceFailed, err)
	}

	if info, err := os.Stat(path); err == nil {
		// Best effort: carry the live file's permissions over.
		_ = os.Chmod(tmpPath, info.Mode().Perm())
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrReplaceFailed, err)
	}
	return nil
}

// Prune removes the oldest snapshots in dir beyond the retention count,
// ordered by the timestamp embedded in the snapshot name with ties broken
// by lexical filename order. Individual removal failures are collected and
// returned; callers log them without aborting.
func (m *Manager) Prune(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read backup dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) <= m.keep {
		return nil
	}

	// Newest first.
	sort.Slice(names, func(i, j int) bool {
		si, sj := snapshotStamp(names[i]), snapshotStamp(names[j])
		if si != sj {
			return si > sj
		}
		return names[i] < names[j]
	})

	var errs []error
	for _, name := range names[m.keep:] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func snapshotStamp(name string) string {
	if m := snapshotStampRE.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

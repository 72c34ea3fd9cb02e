package transcript

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single transcript line. Tool results can embed
// whole files, so give the scanner generous headroom.
const maxLineSize = 64 * 1024 * 1024

// Read parses newline-delimited records from r, preserving their order.
// Blank lines are skipped. Any unparseable line fails the whole read with
// its line number attached.
func Read(r io.Reader) ([]*Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var records []*Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return records, nil
}

// ReadFile loads every record of the transcript at path.
func ReadFile(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Marshal serializes records back to newline-delimited form, one record
// per line with a terminating newline. Unmodified records are emitted
// byte-identical to their source lines.
func Marshal(records []*Record) []byte {
	var buf bytes.Buffer
	for _, rec := range records {
		buf.Write(rec.Raw())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

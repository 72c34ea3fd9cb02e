package trim

import (
	"fmt"

	"github.com/rollctx/rollctx/transcript"
)

// OrphanDetector resolves a desired cut index to the nearest safe boundary.
// A boundary is safe when no tool-invocation block before it has its
// matching tool-result at or after it (and vice versa): a correlated pair
// is atomic with respect to trimming.
//
// Parent references are deliberately not a constraint here. A retained
// record whose parent was removed is repaired by rewriting, not preserved
// by shrinking the cut.
type OrphanDetector struct {
	records []*transcript.Record

	// useIndex maps a correlation identifier to the index of the record
	// holding the tool-invocation block.
	useIndex map[string]int

	// resultIndex maps a correlation identifier to the index of the record
	// holding the matching tool-result block.
	resultIndex map[string]int
}

// NewOrphanDetector builds the correlation index for the ordered record
// sequence.
func NewOrphanDetector(records []*transcript.Record) *OrphanDetector {
	d := &OrphanDetector{
		records:     records,
		useIndex:    make(map[string]int),
		resultIndex: make(map[string]int),
	}
	for idx, rec := range records {
		for _, id := range rec.ToolUseIDs {
			d.useIndex[id] = idx
		}
		if rec.ToolResultFor != "" {
			d.resultIndex[rec.ToolResultFor] = idx
		}
	}
	return d
}

// FindSafeCut returns the largest index k' <= desired such that cutting
// the first k' records splits no pair and leaves at least floor records
// retained. The cut only ever shrinks: the resolver never removes more
// than the caller requested.
//
// It fails with ErrNoSafeCut when the safe boundary collapses to zero: a
// trim that removes nothing at the caller's request size is no trim.
func (d *OrphanDetector) FindSafeCut(desired, floor int) (int, error) {
	k := desired
	if k > len(d.records) {
		k = len(d.records)
	}
	if floor > 0 {
		if max := len(d.records) - floor; k > max {
			k = max
		}
	}

	// Shrink to the fixed point: while any pair straddles the boundary,
	// move the boundary to the pair's earlier half. Each pass strictly
	// decreases k, so this terminates.
	for k > 0 {
		straddle := -1
		for id, r := range d.resultIndex {
			u, ok := d.useIndex[id]
			if !ok {
				// Unmatched result; nothing to keep together.
				continue
			}
			lo, hi := u, r
			if hi < lo {
				lo, hi = hi, lo
			}
			if lo < k && k <= hi {
				if straddle == -1 || lo < straddle {
					straddle = lo
				}
			}
		}
		if straddle == -1 {
			break
		}
		k = straddle
	}

	if k <= 0 {
		return 0, fmt.Errorf("%w: requested %d of %d records, retention floor %d",
			ErrNoSafeCut, desired, len(d.records), floor)
	}
	return k, nil
}

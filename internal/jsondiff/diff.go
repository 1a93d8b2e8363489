package jsondiff

import (
	"fmt"
	"strings"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
)

// Diff returns the structural differences between a and b.
//
// Only objects are descended into. When either side is not an object (arrays
// included) or is null, the two values are compared as opaque wholes and at
// most one value_mismatch entry is emitted for that path. Object keys are
// visited in a's insertion order, then b's, so the output is deterministic
// for a fixed input. A nil result means the documents are structurally equal.
func Diff(a, b Value) []domain.DiffEntry {
	d := &differ{}
	d.walk(nil, a, b)
	return d.entries
}

// DiffJSON decodes two documents and diffs them.
func DiffJSON(a, b []byte) ([]domain.DiffEntry, error) {
	va, err := Decode(a)
	if err != nil {
		return nil, fmt.Errorf("first document: %w", err)
	}
	vb, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("second document: %w", err)
	}
	return Diff(va, vb), nil
}

// Render joins entry descriptions one per line.
func Render(entries []domain.DiffEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Description
	}
	return strings.Join(lines, "\n")
}

type differ struct {
	entries []domain.DiffEntry
}

func (d *differ) walk(path []string, a, b Value) {
	if a.Kind() != KindObject || b.Kind() != KindObject {
		if !a.Equal(b) {
			d.entries = append(d.entries, domain.DiffEntry{
				Path:        path,
				Kind:        domain.DiffValueMismatch,
				Description: fmt.Sprintf("Difference at %s: %s !== %s", domain.DottedPath(path), a, b),
			})
		}
		return
	}

	oa, ob := a.Object(), b.Object()
	for _, m := range oa.Members() {
		bv, ok := ob.Get(m.Key)
		if !ok {
			d.missing(path, m.Key, domain.DiffMissingInSecond, "second")
			continue
		}
		d.walk(extend(path, m.Key), m.Value, bv)
	}
	for _, m := range ob.Members() {
		if !oa.Has(m.Key) {
			d.missing(path, m.Key, domain.DiffMissingInFirst, "first")
		}
	}
}

func (d *differ) missing(parent []string, key string, kind domain.DiffKind, side string) {
	d.entries = append(d.entries, domain.DiffEntry{
		Path:        extend(parent, key),
		Kind:        kind,
		Description: fmt.Sprintf("Missing key in %s JSON at %s: %s", side, domain.DottedPath(parent), key),
	})
}

// extend returns a fresh slice so sibling paths never share a backing array.
func extend(path []string, key string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}

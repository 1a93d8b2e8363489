package domain

import "fmt"

// DiffKind classifies a single structural difference between two documents.
type DiffKind string

const (
	DiffValueMismatch   DiffKind = "value_mismatch"
	DiffMissingInSecond DiffKind = "missing_in_second"
	DiffMissingInFirst  DiffKind = "missing_in_first"
)

func (k DiffKind) Valid() bool {
	switch k {
	case DiffValueMismatch, DiffMissingInSecond, DiffMissingInFirst:
		return true
	}
	return false
}

// Verdict is the three-way outcome of comparing one URL pair.
type Verdict string

const (
	VerdictEqual    Verdict = "equal"
	VerdictNotEqual Verdict = "not_equal"
	VerdictFailed   Verdict = "failed"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictEqual, VerdictNotEqual, VerdictFailed:
		return true
	}
	return false
}

// ParseVerdict converts a string into a Verdict, rejecting unknown values.
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown verdict: %q", s)
	}
	return v, nil
}

package domain

import "testing"

func TestDiffKindValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		kind  DiffKind
		valid bool
	}{
		{name: "value mismatch", kind: DiffValueMismatch, valid: true},
		{name: "missing in second", kind: DiffMissingInSecond, valid: true},
		{name: "missing in first", kind: DiffMissingInFirst, valid: true},
		{name: "bogus", kind: DiffKind("bogus"), valid: false},
		{name: "empty", kind: DiffKind(""), valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.kind.Valid(); got != tt.valid {
				t.Errorf("DiffKind(%q).Valid() = %v, want %v", tt.kind, got, tt.valid)
			}
		})
	}
}

func TestVerdictStringValues(t *testing.T) {
	t.Parallel()
	// These values appear in API and workflow payloads.
	tests := []struct {
		v    Verdict
		want string
	}{
		{VerdictEqual, "equal"},
		{VerdictNotEqual, "not_equal"},
		{VerdictFailed, "failed"},
	}
	for _, tt := range tests {
		if string(tt.v) != tt.want {
			t.Errorf("Verdict = %q, want %q", tt.v, tt.want)
		}
	}
}

func TestParseVerdict(t *testing.T) {
	t.Parallel()
	v, err := ParseVerdict("not_equal")
	if err != nil {
		t.Fatalf("ParseVerdict() error = %v", err)
	}
	if v != VerdictNotEqual {
		t.Errorf("ParseVerdict() = %q, want %q", v, VerdictNotEqual)
	}

	if _, err := ParseVerdict("maybe"); err == nil {
		t.Error("ParseVerdict(\"maybe\") expected error")
	}
}

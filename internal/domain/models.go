// Package domain holds the value types shared by every stage of a pair comparison run.
package domain

import (
	"fmt"
	"strings"
)

// URLPair is one URL from each input list, matched by position.
type URLPair struct {
	Index int    `json:"index"`
	URLA  string `json:"url_a"`
	URLB  string `json:"url_b"`
}

// DiffEntry is one path-addressed discrepancy between two parsed JSON documents.
// For missing-key entries the last path segment is the missing key.
type DiffEntry struct {
	Path        []string `json:"path"`
	Kind        DiffKind `json:"kind"`
	Description string   `json:"description"`
}

// DottedPath renders the path as ".a.b"; the root renders as "".
func (e DiffEntry) DottedPath() string {
	return DottedPath(e.Path)
}

// DottedPath renders path segments the way reports address them.
func DottedPath(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return "." + strings.Join(segments, ".")
}

// Classification is the tagged result of comparing a pair. Build it with
// Equal, NotEqual or ComparisonFailed.
type Classification struct {
	Verdict Verdict     `json:"verdict"`
	Diff    []DiffEntry `json:"diff,omitempty"`
	Reason  string      `json:"reason,omitempty"`
}

// Equal classifies a pair whose documents have no structural difference.
func Equal() Classification {
	return Classification{Verdict: VerdictEqual}
}

// NotEqual classifies a pair whose documents differ.
func NotEqual(entries []DiffEntry) Classification {
	return Classification{Verdict: VerdictNotEqual, Diff: entries}
}

// ComparisonFailed classifies a pair that could not be compared.
func ComparisonFailed(reason string) Classification {
	return Classification{Verdict: VerdictFailed, Reason: reason}
}

// Outcome is the resolved comparison of one pair. Exactly one is produced per pair.
type Outcome struct {
	Pair           URLPair        `json:"pair"`
	Classification Classification `json:"classification"`
	Message        string         `json:"message"`
	// Crashed is set when the comparison task itself died rather than
	// reporting a handled failure.
	Crashed bool `json:"crashed,omitempty"`
}

// Counters accumulates per-verdict totals. Counters are only ever incremented.
type Counters struct {
	Equal    int `json:"equal"`
	NotEqual int `json:"not_equal"`
	Errors   int `json:"errors"`
}

// Add increments the counter matching v. Unknown verdicts count as errors so
// that no pair is ever dropped from the totals.
func (c *Counters) Add(v Verdict) {
	switch v {
	case VerdictEqual:
		c.Equal++
	case VerdictNotEqual:
		c.NotEqual++
	default:
		c.Errors++
	}
}

// Total returns the number of pairs counted so far.
func (c Counters) Total() int {
	return c.Equal + c.NotEqual + c.Errors
}

func (c Counters) String() string {
	return fmt.Sprintf("equal=%d not_equal=%d errors=%d", c.Equal, c.NotEqual, c.Errors)
}

// RunResult is the aggregate handed to report sinks at the end of a run.
type RunResult struct {
	Counters Counters `json:"counters"`
	Lines    []string `json:"lines"`
}

// Record folds one outcome into the result.
func (r *RunResult) Record(o Outcome) {
	r.Counters.Add(o.Classification.Verdict)
	r.Lines = append(r.Lines, o.Message)
}

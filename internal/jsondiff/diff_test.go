package jsondiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
)

func mustDecode(t *testing.T, s string) Value {
	t.Helper()
	v, err := Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func TestDiff(t *testing.T) {
	t.Parallel()
	cases := []struct {
		description string
		a, b        string
		expect      []domain.DiffEntry
	}{
		{"identical objects", `{"a":1,"b":{"c":[1,2]}}`, `{"a":1,"b":{"c":[1,2]}}`, nil},
		{"key order independent", `{"a":1,"b":2}`, `{"b":2,"a":1}`, nil},
		{"value mismatch", `{"a":1}`, `{"a":2}`, []domain.DiffEntry{
			{Path: []string{"a"}, Kind: domain.DiffValueMismatch, Description: "Difference at .a: 1 !== 2"},
		}},
		{"missing in second", `{"a":1}`, `{}`, []domain.DiffEntry{
			{Path: []string{"a"}, Kind: domain.DiffMissingInSecond, Description: "Missing key in second JSON at : a"},
		}},
		{"missing in first", `{}`, `{"a":1}`, []domain.DiffEntry{
			{Path: []string{"a"}, Kind: domain.DiffMissingInFirst, Description: "Missing key in first JSON at : a"},
		}},
		{"nested", `{"x":{"y":{"z":"old","keep":1},"gone":true}}`, `{"x":{"y":{"z":"new","keep":1},"added":null}}`, []domain.DiffEntry{
			{Path: []string{"x", "y", "z"}, Kind: domain.DiffValueMismatch, Description: `Difference at .x.y.z: "old" !== "new"`},
			{Path: []string{"x", "gone"}, Kind: domain.DiffMissingInSecond, Description: "Missing key in second JSON at .x: gone"},
			{Path: []string{"x", "added"}, Kind: domain.DiffMissingInFirst, Description: "Missing key in first JSON at .x: added"},
		}},
		{"root scalars", `1`, `"1"`, []domain.DiffEntry{
			{Path: nil, Kind: domain.DiffValueMismatch, Description: `Difference at : 1 !== "1"`},
		}},
		{"null vs object", `{"a":null}`, `{"a":{"b":1}}`, []domain.DiffEntry{
			{Path: []string{"a"}, Kind: domain.DiffValueMismatch, Description: `Difference at .a: null !== {"b":1}`},
		}},
		{"arrays are opaque", `{"items":[{"id":1},{"id":2}]}`, `{"items":[{"id":1},{"id":3}]}`, []domain.DiffEntry{
			{Path: []string{"items"}, Kind: domain.DiffValueMismatch, Description: `Difference at .items: [{"id":1},{"id":2}] !== [{"id":1},{"id":3}]`},
		}},
		{"equal arrays", `{"items":[{"id":1}]}`, `{"items":[{"id":1}]}`, nil},
		{"object vs array", `{"a":{}}`, `{"a":[]}`, []domain.DiffEntry{
			{Path: []string{"a"}, Kind: domain.DiffValueMismatch, Description: `Difference at .a: {} !== []`},
		}},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			t.Parallel()
			got := Diff(mustDecode(t, c.a), mustDecode(t, c.b))
			if diff := cmp.Diff(c.expect, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiff_OrderFollowsInsertionOrder(t *testing.T) {
	t.Parallel()
	a := mustDecode(t, `{"z":1,"m":1,"a":1,"only_a2":1,"only_a1":1}`)
	b := mustDecode(t, `{"a":2,"m":2,"z":2,"only_b2":1,"only_b1":1}`)

	got := Diff(a, b)
	var paths []string
	for _, e := range got {
		paths = append(paths, e.DottedPath())
	}
	assert.Equal(t, []string{".z", ".m", ".a", ".only_a2", ".only_a1", ".only_b2", ".only_b1"}, paths)

	// Repeated runs produce identical output.
	assert.Equal(t, got, Diff(a, b))
}

func TestDiff_PathsDoNotAlias(t *testing.T) {
	t.Parallel()
	got := Diff(
		mustDecode(t, `{"p":{"a":1,"b":1,"c":1}}`),
		mustDecode(t, `{"p":{"a":2,"b":2,"c":2}}`),
	)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"p", "a"}, got[0].Path)
	assert.Equal(t, []string{"p", "b"}, got[1].Path)
	assert.Equal(t, []string{"p", "c"}, got[2].Path)
}

func TestDiffJSON(t *testing.T) {
	t.Parallel()
	entries, err := DiffJSON([]byte(`{"a":1}`), []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = DiffJSON([]byte(`nope`), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first document")

	_, err = DiffJSON([]byte(`{}`), []byte(`nope`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second document")
}

func TestRender(t *testing.T) {
	t.Parallel()
	entries := Diff(mustDecode(t, `{"a":1,"b":1}`), mustDecode(t, `{"a":2}`))
	assert.Equal(t, "Difference at .a: 1 !== 2\nMissing key in second JSON at : b", Render(entries))
	assert.Equal(t, "", Render(nil))
}

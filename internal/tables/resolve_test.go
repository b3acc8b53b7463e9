package tables

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `version: "2.0.1"
method: "test"
`

const wallTable = `name: umur0
keys: [mat]
buckets: [e]
rows:
  - {mat: "26", e: 10, u: 0.64}
  - {mat: "26", e: 15, u: 0.45}
  - {mat: "26", e: 20, u: 0.34}
  - {mat: "26", e: 25, u: 0.28}
  - {mat: "26", e: 45, u: 0.16}
  - {mat: "1", u: 2.5}
`

func testStore(t *testing.T, files map[string]string) *Store {
	t.Helper()
	fsys := fstest.MapFS{"manifest.yaml": {Data: []byte(testManifest)}}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	store, err := Load(fsys)
	require.NoError(t, err)
	return store
}

func TestResolve_BucketSnapping(t *testing.T) {
	store := testStore(t, map[string]string{"umur0.yaml": wallTable})

	tests := []struct {
		name      string
		thickness float64
		wantE     float64
		wantU     float64
	}{
		{name: "between buckets snaps down", thickness: 16, wantE: 15, wantU: 0.45},
		{name: "exact bucket", thickness: 20, wantE: 20, wantU: 0.34},
		{name: "above every bucket uses the largest", thickness: 46, wantE: 45, wantU: 0.16},
		{name: "below every bucket uses the smallest", thickness: 5, wantE: 10, wantU: 0.64},
		{name: "just under the next bucket", thickness: 24.9, wantE: 20, wantU: 0.34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := store.Resolve("umur0", Where("mat", "26").Near("e", tt.thickness))
			require.True(t, ok)

			e, ok := row.Bucket("e")
			require.True(t, ok)
			assert.InDelta(t, tt.wantE, e, 1e-9)

			u, ok := row.Float("u")
			require.True(t, ok)
			assert.InDelta(t, tt.wantU, u, 1e-9)
		})
	}
}

func TestResolve_KeysAndWildcards(t *testing.T) {
	store := testStore(t, map[string]string{
		"sw.yaml": `name: sw
keys: [vitrage, menuiserie]
rows:
  - {vitrage: "2", menuiserie: "4", sw: 0.52}
  - {vitrage: "2", sw: 0.47}
  - {vitrage: "6", sw: 0.4}
`,
	})

	tests := []struct {
		name     string
		criteria Criteria
		want     float64
		found    bool
	}{
		{name: "exact row wins by declaration order", criteria: Where("vitrage", "2").And("menuiserie", "4"), want: 0.52, found: true},
		{name: "omitted key is a wildcard", criteria: Where("vitrage", "2").And("menuiserie", "3"), want: 0.47, found: true},
		{name: "declared key must be requested", criteria: Where("menuiserie", "4"), found: false},
		{name: "empty value is not a criterion", criteria: Where("vitrage", "6").And("menuiserie", ""), want: 0.4, found: true},
		{name: "no matching row", criteria: Where("vitrage", "9"), found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := store.Resolve("sw", tt.criteria)
			require.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			got, _ := row.Float("sw")
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestResolve_RowsWithoutBucketSurvive(t *testing.T) {
	store := testStore(t, map[string]string{"umur0.yaml": wallTable})

	row, ok := store.Resolve("umur0", Where("mat", "1").Near("e", 30))
	require.True(t, ok)
	u, _ := row.Float("u")
	assert.InDelta(t, 2.5, u, 1e-9)
	assert.Equal(t, 5, row.Index())
}

func TestResolve_UnrequestedBucketDoesNotFilter(t *testing.T) {
	store := testStore(t, map[string]string{"umur0.yaml": wallTable})

	row, ok := store.Resolve("umur0", Where("mat", "26"))
	require.True(t, ok)
	assert.Equal(t, 0, row.Index())
}

func TestResolve_TwoBuckets(t *testing.T) {
	store := testStore(t, map[string]string{
		"ue.yaml": `name: ue
keys: [kind]
buckets: [sp, upb]
rows:
  - {kind: "a", sp: 3, upb: 0.5, ue: 0.3}
  - {kind: "a", sp: 3, upb: 1.0, ue: 0.5}
  - {kind: "a", sp: 6, upb: 0.5, ue: 0.25}
  - {kind: "a", sp: 6, upb: 1.0, ue: 0.4}
`,
	})

	row, ok := store.Resolve("ue", Where("kind", "a").Near("sp", 7).Near("upb", 0.9))
	require.True(t, ok)
	got, _ := row.Float("ue")
	assert.InDelta(t, 0.25, got, 1e-9)
}

func TestResolve_UnknownTable(t *testing.T) {
	store := testStore(t, nil)
	_, ok := store.Resolve("missing", Where("a", "b"))
	assert.False(t, ok)
}

func TestCriteria_Immutable(t *testing.T) {
	base := Where("a", "1")
	left := base.And("b", "2")
	right := base.And("b", "3")

	lv, _ := left.Key("b")
	rv, _ := right.Key("b")
	assert.Equal(t, "2", lv)
	assert.Equal(t, "3", rv)
	_, ok := base.Key("b")
	assert.False(t, ok)
}

func TestCriteria_String(t *testing.T) {
	c := Where("zone", "h1a").Near("e", 16).And("alt", "1")
	assert.Equal(t, "alt=1, e~=16, zone=h1a", c.String())
	assert.Equal(t, map[string]string{"zone": "h1a", "alt": "1", "e": "16"}, c.Fields())
}

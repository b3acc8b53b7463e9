package tables

import (
	"sort"
	"strconv"
	"strings"
)

// Criteria is an immutable set of match criteria for Resolve.
// Build it with Where and chain And / Near:
//
//	tables.Where("enum_materiaux_structure_mur_id", "26").Near("epaisseur_structure", 16)
type Criteria struct {
	keys    []keyCriterion
	buckets []bucketCriterion
}

type keyCriterion struct {
	column string
	value  string
}

type bucketCriterion struct {
	column string
	value  float64
}

// Where starts a criteria set with one categorical criterion.
func Where(column, value string) Criteria {
	return Criteria{}.And(column, value)
}

// Near starts a criteria set with one numeric bucket criterion.
func Near(column string, value float64) Criteria {
	return Criteria{}.Near(column, value)
}

// And adds a categorical criterion. An empty value is not a criterion.
func (c Criteria) And(column, value string) Criteria {
	if value == "" {
		return c
	}
	keys := make([]keyCriterion, len(c.keys), len(c.keys)+1)
	copy(keys, c.keys)
	c.keys = append(keys, keyCriterion{column: column, value: value})
	return c
}

// Near adds a numeric bucket criterion.
func (c Criteria) Near(column string, value float64) Criteria {
	buckets := make([]bucketCriterion, len(c.buckets), len(c.buckets)+1)
	copy(buckets, c.buckets)
	c.buckets = append(buckets, bucketCriterion{column: column, value: value})
	return c
}

// Key returns the categorical value requested for column.
func (c Criteria) Key(column string) (string, bool) {
	for _, k := range c.keys {
		if k.column == column {
			return k.value, true
		}
	}
	return "", false
}

// Fields renders the criteria as a column -> value map, for diagnostics.
func (c Criteria) Fields() map[string]string {
	fields := make(map[string]string, len(c.keys)+len(c.buckets))
	for _, k := range c.keys {
		fields[k.column] = k.value
	}
	for _, b := range c.buckets {
		fields[b.column] = strconv.FormatFloat(b.value, 'f', -1, 64)
	}
	return fields
}

// String renders the criteria as "col=value, col~=number" in a stable order.
func (c Criteria) String() string {
	parts := make([]string, 0, len(c.keys)+len(c.buckets))
	for _, k := range c.keys {
		parts = append(parts, k.column+"="+k.value)
	}
	for _, b := range c.buckets {
		parts = append(parts, b.column+"~="+strconv.FormatFloat(b.value, 'f', -1, 64))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// Resolve returns the first row, in declaration order, whose key columns all
// match the criteria and whose bucket columns are the nearest available
// values below or equal to the requested numbers. When every bucket value is
// above the request the smallest one is used. The second result is false
// when no row matches.
func (t *Table) Resolve(c Criteria) (Row, bool) {
	candidates := make([]int, 0, len(t.Rows))
	for i := range t.Rows {
		if t.Rows[i].matchesKeys(c) {
			candidates = append(candidates, i)
		}
	}

	for _, b := range c.buckets {
		candidates = t.snap(candidates, b)
	}

	if len(candidates) == 0 {
		return Row{}, false
	}
	return t.Rows[candidates[0]], true
}

// matchesKeys requires every key the row declares to be requested with the
// same value. Keys the row omits are wildcards.
func (r *Row) matchesKeys(c Criteria) bool {
	for column, want := range r.keys {
		got, ok := c.Key(column)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// snap keeps the candidates whose bucket column equals the selected bucket,
// plus the candidates that do not declare that column.
func (t *Table) snap(candidates []int, b bucketCriterion) []int {
	var (
		below, lowest         float64
		haveBelow, haveLowest bool
	)

	for _, i := range candidates {
		v, ok := t.Rows[i].buckets[b.column]
		if !ok {
			continue
		}
		if v <= b.value && (!haveBelow || v > below) {
			below, haveBelow = v, true
		}
		if !haveLowest || v < lowest {
			lowest, haveLowest = v, true
		}
	}

	if !haveLowest {
		return candidates
	}

	target := lowest
	if haveBelow {
		target = below
	}

	kept := candidates[:0]
	for _, i := range candidates {
		v, ok := t.Rows[i].buckets[b.column]
		if !ok || v == target {
			kept = append(kept, i)
		}
	}
	return kept
}

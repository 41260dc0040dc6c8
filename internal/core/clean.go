package core

import "github.com/JonMunkholm/featureprep/internal/table"

// Clean returns a cleaned copy of t; t itself is never modified.
//
// If targetColumn is non-empty and present, rows with a missing target are
// dropped first. Exact duplicate rows are then removed, keeping the first
// occurrence and the original order. An unknown targetColumn is ignored.
func Clean(t *table.Table, targetColumn string) *table.Table {
	keep := make([]int, 0, t.NumRows())

	target, hasTarget := table.Column{}, false
	if targetColumn != "" {
		target, hasTarget = t.Column(targetColumn)
	}

	seen := make(map[string]struct{}, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if hasTarget && target.At(i).IsMissing() {
			continue
		}
		key := t.RowKey(i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}

	return t.Take(keep)
}

// DropMissingTarget removes rows whose targetColumn value is missing.
// It returns t's rows unchanged when the column does not exist.
func DropMissingTarget(t *table.Table, targetColumn string) *table.Table {
	col, ok := t.Column(targetColumn)
	if !ok {
		return t.Clone()
	}
	keep := make([]int, 0, t.NumRows())
	for i := 0; i < col.Len(); i++ {
		if !col.At(i).IsMissing() {
			keep = append(keep, i)
		}
	}
	return t.Take(keep)
}

// DropDuplicates removes exact duplicate rows, keeping first occurrences.
func DropDuplicates(t *table.Table) *table.Table {
	return Clean(t, "")
}

package core

import (
	"math"

	"github.com/JonMunkholm/featureprep/internal/table"
)

// Derived column names.
const (
	ColFatalities    = "fatalities"
	ColTotalAffected = "total_affected"
	ColPopulation    = "population"

	ColLogFatalities   = "log_fatalities"
	ColAffectedPer1000 = "affected_per_1000"
)

// Rule derives one column from a table. Compute is only called when every
// column in Requires exists.
type Rule struct {
	Name     string
	Requires []string
	Compute  func(t *table.Table) table.Column
}

// Applies reports whether all prerequisite columns of r are present.
func (r Rule) Applies(t *table.Table) bool {
	for _, name := range r.Requires {
		if !t.HasColumn(name) {
			return false
		}
	}
	return true
}

// DefaultRules returns the standard derivation rules in application order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     ColLogFatalities,
			Requires: []string{ColFatalities},
			Compute: func(t *table.Table) table.Column {
				return unaryColumn(t, ColLogFatalities, ColFatalities, func(x float64) float64 {
					return math.Log(x + 1)
				})
			},
		},
		{
			Name:     ColAffectedPer1000,
			Requires: []string{ColTotalAffected, ColPopulation},
			Compute: func(t *table.Table) table.Column {
				return binaryColumn(t, ColAffectedPer1000, ColTotalAffected, ColPopulation, func(a, p float64) float64 {
					return 1000 * a / p
				})
			},
		},
	}
}

// Deriver applies an ordered list of rules.
type Deriver struct {
	rules []Rule
}

// NewDeriver returns a Deriver for rules. With no rules it uses DefaultRules.
func NewDeriver(rules ...Rule) *Deriver {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Deriver{rules: rules}
}

// Rules returns the rules in application order.
func (d *Deriver) Rules() []Rule {
	out := make([]Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Derive returns a new table with every applicable rule's column added.
// Rules whose prerequisites are absent are skipped. Existing columns are
// carried over unchanged; a derived name that already exists is replaced.
//
// Prerequisites are checked against the input table, so rules do not see
// each other's output.
func (d *Deriver) Derive(t *table.Table) *table.Table {
	out := t.Clone()
	for _, r := range d.rules {
		if !r.Applies(t) {
			continue
		}
		col := r.Compute(t).Rename(r.Name)
		next, err := out.WithColumn(col)
		if err != nil {
			// Compute returned a column of the wrong length; the rule is broken.
			panic("core: rule " + r.Name + ": " + err.Error())
		}
		out = next
	}
	return out
}

// DeriveFeatures applies DefaultRules to t.
func DeriveFeatures(t *table.Table) *table.Table {
	return NewDeriver().Derive(t)
}

// numberAt returns the numeric value of a cell. Missing and non-numeric
// cells report false.
func numberAt(c table.Column, i int) (float64, bool) {
	v := c.At(i)
	if v.IsMissing() {
		return 0, false
	}
	return v.Float()
}

func unaryColumn(t *table.Table, name, src string, fn func(float64) float64) table.Column {
	in, _ := t.Column(src)
	values := make([]table.Value, in.Len())
	for i := range values {
		if x, ok := numberAt(in, i); ok {
			values[i] = table.Number(fn(x))
		}
	}
	return table.NewColumn(name, table.TypeNumeric, values)
}

func binaryColumn(t *table.Table, name, left, right string, fn func(a, b float64) float64) table.Column {
	l, _ := t.Column(left)
	r, _ := t.Column(right)
	values := make([]table.Value, l.Len())
	for i := range values {
		a, okA := numberAt(l, i)
		b, okB := numberAt(r, i)
		if okA && okB {
			values[i] = table.Number(fn(a, b))
		}
	}
	return table.NewColumn(name, table.TypeNumeric, values)
}

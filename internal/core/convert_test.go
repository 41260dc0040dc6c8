package core

import (
	"math"
	"testing"

	"github.com/JonMunkholm/featureprep/internal/table"
	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"42", 42, true},
		{"-3.5", -3.5, true},
		{"+.5", 0.5, true},
		{"1e3", 1000, true},
		{"2.5E-2", 0.025, true},
		{"  7  ", 7, true},
		{"inf", math.Inf(1), true},
		{"-Infinity", math.Inf(-1), true},
		{"1e400", math.Inf(1), true},
		{"", 0, false},
		{"1,000", 0, false},
		{"0x10", 0, false},
		{"12abc", 0, false},
		{"+-inf", 0, false},
		{"flood", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsMissingToken(t *testing.T) {
	for _, s := range []string{"", "NA", "NaN", "nan", "null", "NULL", "None", "N/A", "#N/A", "<NA>"} {
		assert.True(t, IsMissingToken(s), "%q should be missing", s)
	}
	for _, s := range []string{" ", "0", "na ", "missing", "-"} {
		assert.False(t, IsMissingToken(s), "%q should not be missing", s)
	}
}

func TestInferColumn(t *testing.T) {
	t.Run("numeric with gaps", func(t *testing.T) {
		col := inferColumn("fatalities", []string{"1", "", "NA", "2.5"})
		assert.Equal(t, table.TypeNumeric, col.Type())
		assert.True(t, col.At(1).IsMissing())
		assert.True(t, col.At(2).IsMissing())
		f, ok := col.At(3).Float()
		assert.True(t, ok)
		assert.Equal(t, 2.5, f)
	})

	t.Run("one text cell makes a string column", func(t *testing.T) {
		col := inferColumn("country", []string{"1", "Chile", ""})
		assert.Equal(t, table.TypeString, col.Type())
		s, ok := col.At(0).Text()
		assert.True(t, ok)
		assert.Equal(t, "1", s)
		assert.True(t, col.At(2).IsMissing())
	})

	t.Run("whole numbers stay exact", func(t *testing.T) {
		col := inferColumn("id", []string{"9007199254740992", " 9007199254740993", "-4"})
		assert.Equal(t, table.TypeNumeric, col.Type())
		n, ok := col.At(1).Int()
		assert.True(t, ok)
		assert.Equal(t, int64(9007199254740993), n)
		assert.False(t, col.At(0).Equal(col.At(1)))
		f, _ := col.At(2).Float()
		assert.Equal(t, -4.0, f)
	})

	t.Run("gap or fraction falls back to float", func(t *testing.T) {
		for _, cells := range [][]string{{"1", "", "2"}, {"1", "2.0"}, {"1", "inf"}} {
			col := inferColumn("x", cells)
			assert.Equal(t, table.TypeNumeric, col.Type())
			_, ok := col.At(0).Int()
			assert.False(t, ok, "%q", cells)
		}
	})

	t.Run("all missing is numeric", func(t *testing.T) {
		col := inferColumn("empty", []string{"", ""})
		assert.Equal(t, table.TypeNumeric, col.Type())
		assert.True(t, col.At(0).IsMissing())
	})

	t.Run("no rows", func(t *testing.T) {
		col := inferColumn("x", nil)
		assert.Equal(t, 0, col.Len())
		assert.Equal(t, table.TypeNumeric, col.Type())
	})
}

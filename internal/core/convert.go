package core

// convert.go turns raw CSV cells into typed table values.
//
// A column is numeric when every non-missing cell parses as a number; one
// text cell makes the whole column a string column, and its cells are kept
// verbatim. A numeric column of whole numbers with no gaps keeps exact int64
// values. Missing tokens follow the conventions of common data tools
// ("", "NA", "NaN", "null", ...).

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/featureprep/internal/table"
)

// numericRegex validates decimal and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// missingTokens are cell contents read as the missing marker.
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissingToken reports whether a raw cell denotes a missing value.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// ParseNumber parses a raw cell as a float64. Surrounding whitespace is
// ignored; "inf" and "infinity" (any case, optional sign) are accepted.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	body := s
	if body[0] == '+' || body[0] == '-' {
		body = body[1:]
	}
	switch strings.ToLower(body) {
	case "inf", "infinity":
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range values still parse to ±Inf with ErrRange.
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// inferColumn builds a typed column from raw cells.
func inferColumn(name string, cells []string) table.Column {
	numeric, integral := true, len(cells) > 0
	nums := make([]float64, len(cells))
	ints := make([]int64, len(cells))
	missing := make([]bool, len(cells))

	for i, c := range cells {
		if IsMissingToken(c) {
			missing[i] = true
			integral = false
			continue
		}
		f, ok := ParseNumber(c)
		if !ok {
			numeric = false
			break
		}
		nums[i] = f
		if integral {
			n, err := strconv.ParseInt(strings.TrimSpace(c), 10, 64)
			if err != nil {
				integral = false
			}
			ints[i] = n
		}
	}

	values := make([]table.Value, len(cells))
	if numeric {
		for i := range cells {
			if integral {
				values[i] = table.Int(ints[i])
			} else if missing[i] {
				values[i] = table.Missing()
			} else {
				values[i] = table.Number(nums[i])
			}
		}
		return table.NewColumn(name, table.TypeNumeric, values)
	}

	for i, c := range cells {
		if IsMissingToken(c) {
			values[i] = table.Missing()
		} else {
			values[i] = table.String(c)
		}
	}
	return table.NewColumn(name, table.TypeString, values)
}

package policy

import (
	"strconv"
	"strings"
)

// cellFloat coerces a cell value to a decimal. Blank or unparseable
// cells default to 0, never an error: a broken amount cell must not
// discard an otherwise valid row.
func cellFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// cellInt coerces a cell value to an integer with the same default rule.
// Spreadsheet engines often render integer cells as "1000.0", so parse
// through float.
func cellInt(s string) int {
	return int(cellFloat(s))
}

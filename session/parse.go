package session

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPrefix matches the longest leading decimal literal.
var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber coerces free text typed into a numeric field. Leading whitespace
// is skipped and anything after the leading number is ignored, so "12abc" is
// 12. Empty, unparsable and non-finite text is 0.
func ParseNumber(text string) float64 {
	m := numberPrefix.FindString(strings.TrimLeft(text, " \t\r\n\v\f"))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// FormatNumber renders v as plain decimal text with no forced precision.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

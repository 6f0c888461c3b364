package util

import (
	"regexp"
	"strconv"
	"strings"
)

var reNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseNumber reads a numeric spreadsheet cell tolerantly. Vendor sheets mix
// plain numbers with formatted text such as "1,234,000원" or "123.4 %", so
// after a direct parse fails we strip separators and currency suffixes and
// take the first numeric token.
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}

	s = strings.ReplaceAll(s, ",", "")
	token := reNumber.FindString(s)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

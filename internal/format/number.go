// Package format renders entry attributes into fixed-width strings so the
// column layout stays stable while a listing is still accumulating.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// prefixes are the 1024-based magnitude prefixes, in ascending order.
var prefixes = []string{"", "k", "M", "G", "T", "P", "E", "Z", "Y", "R", "Q"}

// Number returns a fixed-width representation of num scaled by 1024-based
// magnitude prefixes.
//
// Short form occupies the numeral width plus one prefix character
// ("xxxP"); long form is a five character numeral followed by the prefix
// and unit (" xxxxx PU"). Negative values mean the number could not be
// determined and render as a placeholder of the same width. Values that
// still exceed the scaling limit after the last prefix render as an
// overflow marker instead of a numeral.
//
// When the short form has no magnitude prefix the spare character is
// reclaimed: with no unit it becomes an extra digit of precision, and a
// single-character unit takes the slot itself.
func Number(num float64, long bool, unit string) string {
	if num < 0 {
		if long {
			q := ""
			if unit != "" {
				q = "?"
			}
			return fmt.Sprintf(" ???? %s ", q)
		}
		return " ???"
	}

	// Short form avoids four-digit numerals; long form just uses the most
	// accurate prefix.
	limit := 1000.0
	if long {
		limit = 1024.0
	}

	prefix := 0
	for num >= limit && prefix < len(prefixes)-1 {
		num /= 1024
		prefix++
	}

	// More than quettabytes?
	if num >= limit {
		if long {
			return fmt.Sprintf(" lots %s ", unit)
		}
		return "lots"
	}

	var suffix string
	digits := 3
	if long {
		digits = 5
		suffix = fmt.Sprintf(" %-*s", 1+len(unit), prefixes[prefix]+unit)
	} else {
		suffix = fmt.Sprintf("%-1s", prefixes[prefix])
	}

	// Short form with no prefix has a spare character position.
	if !long && prefixes[prefix] == "" {
		if unit == "" {
			digits++
			suffix = ""
		} else if len(unit) == 1 {
			suffix = unit
		}
	}

	s, ok := fixedLength(num, digits)
	if !ok {
		// Unreachable: num < limit always fits the numeral width.
		s = strings.Repeat("?", digits)
	}
	return s + suffix
}

// fixedLength renders num as the most accurate string of exactly length
// characters. Rounding alone is not enough: rounding can overflow the
// integer part and change the width, so the result is rounded to the
// remaining decimal places and then hard-truncated. Reports false when the
// integer part alone cannot fit.
func fixedLength(num float64, length int) (string, bool) {
	s := strconv.FormatFloat(num, 'f', length, 64)
	i := strings.IndexByte(s, '.')
	if i > length {
		return "", false
	}
	decimals := 0
	if i < length {
		decimals = length - 1 - i
	}
	shift := math.Pow(10, float64(decimals))
	num = math.Round(num*shift) / shift

	s = strconv.FormatFloat(num, 'f', length, 64)
	if len(s) > length {
		s = s[:length]
	}
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return fmt.Sprintf("%*s", length, s), true
}

// Package numutil provides small number formatting helpers.
package numutil

import "strconv"

// IntWithCommas returns a string representation of an integer with commas
// as thousands separators.
//
// Example:
//
//	12345 -> "12,345"
func IntWithCommas(i int) string {
	if i < 0 {
		return "-" + IntWithCommas(-i)
	}

	digits := strconv.Itoa(i)
	if len(digits) <= 3 {
		return digits
	}

	out := make([]byte, 0, len(digits)+len(digits)/3)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, digits[:lead]...)
	for pos := lead; pos < len(digits); pos += 3 {
		out = append(out, ',')
		out = append(out, digits[pos:pos+3]...)
	}
	return string(out)
}

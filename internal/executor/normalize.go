package executor

import "strconv"

// Normalize trims whitespace, strips all spaces/newlines/carriage
// returns, then - if the remaining text parses as a float - reformats it
// with 10 fractional digits and strips trailing zeros and a trailing
// decimal point, so that "2", "2.0", and "2.00" all normalize equal.
// Ported byte-for-byte from the authoritative normalize_output.
func Normalize(s string) string {
	stripped := stripWhitespace(s)

	f, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return stripped
	}

	formatted := strconv.FormatFloat(f, 'f', 10, 64)
	return trimTrailingZeros(formatted)
}

func stripWhitespace(s string) string {
	out := make([]byte, 0, len(s))
	start, end := 0, len(s)
	for start < end && isTrimSpace(s[start]) {
		start++
	}
	for end > start && isTrimSpace(s[end-1]) {
		end--
	}
	for i := start; i < end; i++ {
		c := s[i]
		if c == ' ' || c == '\n' || c == '\r' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

func isTrimSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func trimTrailingZeros(s string) string {
	if !containsDot(s) {
		return s
	}
	end := len(s)
	for end > 0 && s[end-1] == '0' {
		end--
	}
	if end > 0 && s[end-1] == '.' {
		end--
	}
	return s[:end]
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

package service

import "strings"

const (
	minSuffixDigits = 8
	maxSuffixDigits = 9
	callbackDigits  = 11
)

// NormalizePhone strips everything that is not an ASCII digit.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchSuffix reports whether candidate ends with query. Callers only type the last
// 8 or 9 digits of their number, so any other query length never matches.
func MatchSuffix(candidate, query string) bool {
	if len(query) < minSuffixDigits || len(query) > maxSuffixDigits {
		return false
	}
	return strings.HasSuffix(candidate, query)
}

func lastDigits(digits string, n int) string {
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}

// InternationalPhone formats raw into the +<country><number> form the gateway expects.
func InternationalPhone(raw, countryCode string) string {
	digits := NormalizePhone(raw)
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return "+" + digits
	}
	return "+" + countryCode + digits
}

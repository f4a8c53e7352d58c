package lead

import "strings"

// NormalizePhone keeps digits only, after trimming the ".0" tail that
// spreadsheet exports attach to numeric cells.
//
//	"093-123-4567" -> "0931234567"
//	"934322113.0"  -> "934322113"
func NormalizePhone(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".0")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// KeyPhone normalizes a phone for composite-key matching: digits only and
// leading zeros stripped, so "0931234567", "931234567" and "931234567.0"
// all compare equal.
func KeyPhone(raw string) string {
	return strings.TrimLeft(NormalizePhone(raw), "0")
}

// SplitCallingCodeTH splits a normalized local number into the Thailand
// calling-code cell and the national part without its leading zero.
//
//	"0931234567" -> ("=+66", "931234567")
//	"812345678"  -> ("=+66", "812345678")
func SplitCallingCodeTH(localDigits string) (code, local string) {
	local = strings.TrimPrefix(localDigits, "0")
	return "=+66", local
}

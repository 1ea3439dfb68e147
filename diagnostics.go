package goftfy

import "unicode/utf8"

// CharInfo describes a single rune of an analyzed string (spec.md's per-rune
// diagnostics, rewired here onto the real class table instead of an ad hoc
// rune list).
type CharInfo struct {
	Rune     rune
	Offset   int // byte offset within the analyzed string
	Class    byte
	Mojibake bool // true if Rune is in the mojibake codepoints set
}

// AnalyzeString walks s rune by rune and reports a CharInfo for each,
// classifying every codepoint with the same category function the badness
// heuristic uses.
func AnalyzeString(s string) []CharInfo {
	infos := make([]CharInfo, 0, len(s))
	for i, r := range s {
		infos = append(infos, CharInfo{
			Rune:     r,
			Offset:   i,
			Class:    byte(category(r)),
			Mojibake: mojibakeCodepoint(r) || isUTF8LeadByteValue(r),
		})
	}
	return infos
}

// HasSurrogates reports whether s contains any UTF-16 surrogate codepoint
// (U+D800..U+DFFF), lone or paired, encoded as raw WTF-8/CESU-8 bytes.
// Surrogates are never valid UTF-8, so Go's decoder always rejects their
// three-byte shape as invalid rather than reporting the surrogate's rune
// value; ranging over s as runes would never find them. This scans the raw
// bytes instead, the same way fixSurrogates and the CESU-8 codec do.
func HasSurrogates(s string) bool {
	b := []byte(s)
	for i := 0; i < len(b); {
		if _, _, ok := decodeRawSurrogate(b[i:]); ok {
			return true
		}
		_, size := utf8.DecodeRune(b[i:])
		i += size
	}
	return false
}

// HasReplacementChars reports whether s contains the Unicode replacement
// character U+FFFD, the signal that some earlier decode step destroyed a
// byte (spec.md §4.4, §8 scenario 8).
func HasReplacementChars(s string) bool {
	for _, r := range s {
		if r == '�' {
			return true
		}
	}
	return false
}

// IsValidUTF8 reports whether s is well-formed UTF-8. Unlike utf8.ValidString
// this is exported here so callers that only import goftfy don't need a
// second import purely to validate a string before handing it to Fix.
func IsValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

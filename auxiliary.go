package goftfy

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// auxiliaryTransforms maps each transform name (spec.md §3) to its pure
// string -> string implementation, so Step.apply and the search can look
// them up uniformly alongside the encode/decode steps.
var auxiliaryTransforms = map[string]func(string) string{
	TransformFixSurrogates:             fixSurrogates,
	TransformFixC1Controls:             fixC1Controls,
	TransformRestoreByteA0:             restoreByteA0,
	TransformReplaceLossySequences:     replaceLossySequences,
	TransformDecodeInconsistentUTF8:    decodeInconsistentUTF8,
	TransformFixPartialUTF8PunctIn1252: fixPartialUTF8PunctIn1252,
	TransformUncurlQuotes:              uncurlQuotes,
}

// fixSurrogates stitches adjacent high/low UTF-16 surrogate pairs into their
// scalar value. Lone surrogates pass through unchanged: the caller, not this
// transform, decides whether to drop them (spec.md §4.4).
//
// Surrogate code points are never valid UTF-8, so Go's decoder always
// rejects their three-byte shape and reports a per-byte RuneError rather
// than the surrogate's rune value; ranging over s as runes would never see
// them. This walks the raw bytes instead, using the same raw-surrogate
// recognizer codec.go's CESU-8 decoding already relies on.
func fixSurrogates(s string) string {
	b := []byte(s)
	if len(b) == 0 {
		return s
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		if hi, lo, n, ok := decodeCESU8Pair(b[i:]); ok {
			out = utf8.AppendRune(out, combineSurrogates(hi, lo))
			i += n
			continue
		}
		if _, n, ok := decodeRawSurrogate(b[i:]); ok {
			out = append(out, b[i:i+n]...)
			i += n
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		out = utf8.AppendRune(out, r)
		i += size
	}
	return string(out)
}

// fixC1Controls re-interprets codepoints in U+0080..U+009F as Windows-1252,
// e.g. U+0085 -> U+2026 (…), U+0091..U+0094 -> curly quotes. It is
// effectively a targeted Latin-1 -> Windows-1252 re-decode that leaves the
// rest of the string untouched (spec.md §4.4).
func fixC1Controls(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r >= 0x80 && r <= 0x9F }) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x80 && r <= 0x9F {
			b.WriteRune(cp1252HighHalf[r-0x80])
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// danglingA0 matches U+00C3 (Ã) immediately followed by ASCII SPACE and at
// least one more letter, which is what "Ã" + a dropped U+00A0 looks like
// after a web renderer collapses the non-breaking space to a plain one. The
// trailing-letter requirement is the weak context check: a real word
// follows a restored "à", whereas a coincidental Ã-then-space does not
// (spec.md §4.4: "triggered only when the surrounding context matches
// common French/Portuguese/Spanish words").
var danglingA0 = regexp.MustCompile(`Ã ([A-Za-zÀ-ÿ])`)

// restoreByteA0 substitutes U+00A0 for the ASCII space following a dangling
// "Ã " run, so a later "encode sloppy-windows-1252, decode utf-8" retry can
// recover the intended "à" (spec.md §4.4).
func restoreByteA0(s string) string {
	if !strings.Contains(s, "Ã ") {
		return s
	}
	return danglingA0.ReplaceAllString(s, "Ã $1")
}

// lossyMojibakeRun matches a mojibake-shaped run that contains a
// replacement character: a UTF-8 lead-byte-looking letter, zero or more
// continuation-looking codepoints, then U+FFFD, then zero or more
// continuation-looking codepoints. This is deliberately narrow: it only
// fires on runs that already contain U+FFFD, since that is the signal a
// byte was destroyed before the string reached us (spec.md §4.4).
var lossyMojibakeRun = regexp.MustCompile(`[\x{00C2}-\x{00F4}][\x{0080}-\x{00BF}\x{2018}-\x{203A}\x{20AC}\x{2122}]*\x{FFFD}[\x{0080}-\x{00BF}\x{2018}-\x{203A}\x{20AC}\x{2122}]*`)

// replaceLossySequences replaces a whole matched lossy mojibake run with a
// single U+FFFD, so the remainder of the string can be decoded cleanly
// without the destroyed byte poisoning an otherwise-valid candidate
// (spec.md §4.4).
func replaceLossySequences(s string) string {
	if !strings.ContainsRune(s, '�') {
		return s
	}
	return lossyMojibakeRun.ReplaceAllString(s, "�")
}

// utf8ContinuationClass is the character class of codepoints that render a
// UTF-8 continuation byte, whether the mis-decode went through Latin-1
// (U+0080..U+00BF unchanged) or sloppy Windows-1252 (the high-half special
// characters for 0x80..0x9F). It is shared by utf8MojibakeRun below so the
// lead-byte-count cases (2, 3, or 4 byte sequences) stay in lockstep.
const utf8ContinuationClass = `[\x{0080}-\x{00BF}\x{2013}\x{2014}\x{2018}-\x{203A}\x{20AC}\x{2122}\x{0152}\x{0153}\x{0160}\x{0161}\x{0178}\x{017D}\x{017E}\x{0192}\x{02C6}\x{02DC}]`

// utf8MojibakeRun matches an isolated, plausibly-mojibake UTF-8/Windows-1252
// run: a lead-byte-looking letter followed by exactly as many
// continuation-looking codepoints as its byte count requires (1 for a
// 2-byte sequence, 2 for 3-byte, 3 for 4-byte). Each alternative is a fixed
// lead class followed by a bounded repetition of a fixed class, so there is
// no possibility of catastrophic backtracking on adversarial input
// (spec.md §9 "regex engines differ").
var utf8MojibakeRun = regexp.MustCompile(
	`[\x{00C2}-\x{00DF}]` + utf8ContinuationClass +
		`|[\x{00E0}-\x{00EF}]` + utf8ContinuationClass + `{2}` +
		`|[\x{00F0}-\x{00F4}]` + utf8ContinuationClass + `{3}`,
)

// alreadyUTF8Before reports whether the codepoint immediately preceding a
// match already looks like a correctly-decoded character beyond Latin-1
// (above U+00FF), which would make decoding the match itself a runaway
// double-decode. Latin-1 predecessors do not trigger the guard, since they
// can themselves be part of a mojibake run.
func alreadyUTF8Before(s string, idx int) bool {
	if idx <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:idx])
	return r > 0x00FF && r != utf8.RuneError
}

// decodeInconsistentUTF8 decodes each non-overlapping isolated mojibake run
// in place (encode as sloppy-windows-1252, decode as UTF-8), skipping a
// match that is immediately preceded by what looks like an already-correct
// UTF-8 character, to avoid runaway decoding of text that mixes genuine
// non-ASCII with a handful of mojibake runs (spec.md §4.4).
func decodeInconsistentUTF8(s string) string {
	locs := utf8MojibakeRun.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		b.WriteString(s[prev:start])
		if alreadyUTF8Before(s, start) {
			b.WriteString(s[start:end])
			prev = end
			continue
		}
		decoded, ok := reencodeSegment(s[start:end], encSloppyWindows1252, encUTF8)
		if ok {
			b.WriteString(decoded)
		} else {
			b.WriteString(s[start:end])
		}
		prev = end
	}
	b.WriteString(s[prev:])
	return b.String()
}

// partial1252PunctRun is the narrower sibling of utf8MojibakeRun, restricted
// to the small set of Windows-1252 punctuation mojibake sequences (smart
// quotes, dashes, ellipsis) that are safe to decode even without strong
// surrounding evidence (spec.md §4.4).
var partial1252PunctRun = regexp.MustCompile(`\x{00E2}\x{20AC}[\x{2018}-\x{201E}\x{2122}\x{2013}\x{2014}\x{2020}-\x{2022}\x{0153}\x{201A}\x{02DC}\x{009D}\x{00A6}]`)

// fixPartialUTF8PunctIn1252 decodes the narrow punctuation-only mojibake
// shapes matched by partial1252PunctRun, in place, without requiring any
// additional surrounding evidence (spec.md §4.4).
func fixPartialUTF8PunctIn1252(s string) string {
	locs := partial1252PunctRun.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		b.WriteString(s[prev:start])
		decoded, ok := reencodeSegment(s[start:end], encSloppyWindows1252, encUTF8)
		if ok {
			b.WriteString(decoded)
		} else {
			b.WriteString(s[start:end])
		}
		prev = end
	}
	b.WriteString(s[prev:])
	return b.String()
}

// reencodeSegment applies "encode as enc, decode as dec" to a substring in
// isolation, used by the two partial-decode auxiliary repairs to transform
// just the matched run rather than the whole string.
func reencodeSegment(segment string, enc, dec encodingID) (string, bool) {
	encoder, ok := lookupCodec(enc)
	if !ok {
		return segment, false
	}
	b, err := encoder.encode(segment)
	if err != nil {
		return segment, false
	}
	decoder, ok := lookupCodec(dec)
	if !ok {
		return segment, false
	}
	out, err := decoder.decode(b)
	if err != nil {
		return segment, false
	}
	return out, true
}

// curlyQuoteReplacer straightens curly quotes and the MODIFIER LETTER
// APOSTROPHE to ASCII quotes. It runs before the encoding search (driver.go
// sequences it ahead of FixEncoding), since a curly quote glyph can block
// consistent decoding of a surrounding mojibake run (spec.md §4.4).
var curlyQuoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'", "ʼ", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"‹", "<", "›", ">", "«", `"`, "»", `"`,
)

func uncurlQuotes(s string) string {
	return curlyQuoteReplacer.Replace(s)
}

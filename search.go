package goftfy

import "unicode"

// candidateStep pairs the two steps of an "encode as A, decode as B" repair
// with the low-signal flag spec.md §4.5 describes for macroman/cp437: those
// two need a strictly larger badness drop before they are accepted, since on
// their own they fire on far more accidental-looking inputs than the
// Windows-125x family.
type candidateStep struct {
	encode, decode encodingID
	lowSignal      bool
}

// primaryCandidates is the fixed priority order from spec.md §4.5 step 3.
// sloppy-windows-1252 -> utf-8 is the overwhelmingly common case and is
// tried first; ties among candidates with equal new score are broken by
// this order (earlier wins).
var primaryCandidates = []candidateStep{
	{encSloppyWindows1252, encUTF8, false},
	{encSloppyWindows1252, encUTF8Variants, false},
	{encLatin1, encUTF8, false},
	{encSloppyWindows1250, encUTF8, false},
	{encSloppyWindows1251, encUTF8, false},
	{encSloppyWindows1253, encUTF8, false},
	{encSloppyWindows1254, encUTF8, false},
	{encSloppyWindows1257, encUTF8, false},
	{encMacRoman, encUTF8, true},
	{encCP437, encUTF8, true},
}

// narrowAuxiliaryRepairs are accepted when they merely hold badness steady,
// not only when they strictly improve it (spec.md §4.5 step 4).
var narrowAuxiliaryRepairs = map[string]bool{
	TransformDecodeInconsistentUTF8:    true,
	TransformFixPartialUTF8PunctIn1252: true,
	TransformRestoreByteA0:             true,
	TransformReplaceLossySequences:     true,
}

// FixEncoding is the projection of FixEncodingAndExplain onto just the
// repaired string (spec.md §6).
func FixEncoding(s string, cfg Config) string {
	return FixEncodingAndExplain(s, cfg).Fixed
}

// FixEncodingAndExplain runs the encoding-repair search described in
// spec.md §4.5: it tries an ordered list of (encode, decode) repair plans
// plus the auxiliary repairs, accepting a candidate only when badness
// strictly decreases (or, for a handful of narrow auxiliary repairs, merely
// holds steady) and no gatekeeping heuristic objects. The search never
// fails: on no improvement it returns the best string found (often the
// input, unchanged) with whatever plan was accumulated (spec.md §7).
func FixEncodingAndExplain(s string, cfg Config) ExplainedText {
	if allOutsideMojibakeSet(s) {
		return ExplainedText{Fixed: s, Plan: nil}
	}

	best := s
	bestScore := Badness(best)

	if bestScore == 0 {
		if !utf8MojibakeRun.MatchString(best) {
			return ExplainedText{Fixed: s, Plan: nil}
		}
	}

	if isIsolatedAccentedCapitalFalsePositive(best) {
		return ExplainedText{Fixed: s, Plan: nil}
	}

	var plan Plan
	maxIter := cfg.maxIterations()
	for i := 0; i < maxIter; i++ {
		steps, candidate, newScore, ok := bestNextStep(best, bestScore, cfg)
		if !ok {
			break
		}
		best = candidate
		bestScore = newScore
		plan = append(plan, steps...)
	}
	return ExplainedText{Fixed: best, Plan: plan}
}

// allOutsideMojibakeSet implements the early exit of spec.md §4.5 step 1: if
// every codepoint of s lies outside the mojibake codepoints set, no repair
// plan can change it.
func allOutsideMojibakeSet(s string) bool {
	for _, r := range s {
		if mojibakeCodepoint(r) || isUTF8LeadByteValue(r) {
			return false
		}
	}
	return true
}

// bestNextStep enumerates every candidate in priority order, applies it,
// scores the result, runs the gatekeeping heuristics, and returns the first
// accepted candidate with the lowest new score (ties broken by priority
// order, since candidates are scanned in that order and only a strictly
// lower score replaces the running winner).
func bestNextStep(s string, bestScore int, cfg Config) (Plan, string, int, bool) {
	type found struct {
		plan  Plan
		text  string
		score int
	}
	var winner *found

	consider := func(plan Plan, text string, score int, acceptable bool) {
		if !acceptable {
			return
		}
		if winner == nil || score < winner.score {
			winner = &found{plan: plan, text: text, score: score}
		}
	}

	for _, c := range primaryCandidates {
		text, ok := applyPair(s, c.encode, c.decode)
		if !ok || text == s {
			continue
		}
		score := Badness(text)
		threshold := bestScore - 1
		if c.lowSignal {
			threshold = bestScore - 2
		}
		acceptable := score <= threshold && passesGates(s, text)
		consider(Plan{encodeStep(c.encode), decodeStep(c.decode)}, text, score, acceptable)
	}

	for _, name := range []string{
		TransformFixC1Controls,
		TransformRestoreByteA0,
		TransformReplaceLossySequences,
		TransformDecodeInconsistentUTF8,
		TransformFixPartialUTF8PunctIn1252,
	} {
		if !transformEnabled(name, cfg) {
			continue
		}
		fn := auxiliaryTransforms[name]
		text := fn(s)
		if text == s {
			continue
		}
		score := Badness(text)
		var acceptable bool
		if narrowAuxiliaryRepairs[name] {
			acceptable = score <= bestScore && passesGates(s, text)
		} else {
			acceptable = score < bestScore && passesGates(s, text)
		}
		consider(Plan{transformStep(name)}, text, score, acceptable)
	}

	if winner == nil {
		return nil, s, bestScore, false
	}
	return winner.plan, winner.text, winner.score, true
}

// transformEnabled reports whether cfg allows the named auxiliary repair as
// a candidate step. fix_partial_utf8_punct_in_1252 has no dedicated config
// flag in spec.md §6: it is narrow and safe enough to always try.
func transformEnabled(name string, cfg Config) bool {
	switch name {
	case TransformFixC1Controls:
		return cfg.FixC1Controls
	case TransformRestoreByteA0:
		return cfg.RestoreByteA0
	case TransformReplaceLossySequences:
		return cfg.ReplaceLossySequences
	case TransformDecodeInconsistentUTF8:
		return cfg.DecodeInconsistentUTF8
	case TransformFixPartialUTF8PunctIn1252:
		return true
	default:
		return false
	}
}

// applyPair runs "encode as enc, decode as dec" against s as a unit. A
// codec error on either half discards the whole candidate (spec.md §4.5
// step 4, §7 "undecodable candidate").
func applyPair(s string, enc, dec encodingID) (string, bool) {
	encoder, ok := lookupCodec(enc)
	if !ok {
		return s, false
	}
	b, err := encoder.encode(s)
	if err != nil {
		return s, false
	}
	decoder, ok := lookupCodec(dec)
	if !ok {
		return s, false
	}
	out, err := decoder.decode(b)
	if err != nil {
		return s, false
	}
	return out, true
}

// passesGates runs the gatekeeping heuristics layered on top of the
// accept-if-improved rule (spec.md §4.5).
func passesGates(before, after string) bool {
	return passesCJKGate(before, after) && passesCyrillicGate(before, after)
}

// passesCJKGate rejects a step that would decrease badness but introduce
// exactly one decoded CJK character adjacent to Latin text (or vice versa),
// unless at least two such codepoints appear.
func passesCJKGate(before, after string) bool {
	delta := countClass(after, classCJK) - countClass(before, classCJK)
	if delta < 1 {
		return true
	}
	if delta >= 2 {
		return true
	}
	return !hasLatinCJKAdjacency(after)
}

func hasLatinCJKAdjacency(s string) bool {
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		a, b := category(runes[i-1]), category(runes[i])
		if (isLatinClass(a) && b == classCJK) || (a == classCJK && isLatinClass(b)) {
			return true
		}
	}
	return false
}

func isLatinClass(c class) bool {
	return c == classLetter || c == classAccented
}

// passesCyrillicGate requires any newly introduced Cyrillic letters to
// number at least two, with no Latin letters remaining anywhere in the
// result (spec.md §4.5: "Repairs into Cyrillic from Latin text must produce
// at least two Cyrillic letters and no remaining Latin letters in the
// affected span").
func passesCyrillicGate(before, after string) bool {
	newCyrillic := countCyrillic(after) - countCyrillic(before)
	if newCyrillic < 1 {
		return true
	}
	if newCyrillic < 2 {
		return false
	}
	return countClass(after, classLetter)+countClass(after, classAccented) == 0
}

func countClass(s string, c class) int {
	n := 0
	for _, r := range s {
		if category(r) == c {
			n++
		}
	}
	return n
}

func countCyrillic(s string) int {
	n := 0
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			n++
		}
	}
	return n
}

// accentedCapitals and endingPunct together describe the known
// false-positive shape from spec.md §8 scenario 7: a single accented capital letter immediately
// followed by ellipsis or other "ending" punctuation, which coincides with
// the lead-byte/continuation-rendering bonus (the ellipsis happens to be
// the Windows-1252 rendering of the continuation byte 0x85) but is almost
// always just an accented word at the end of a sentence.
var accentedCapitals = map[rune]bool{
	'À': true, 'Á': true, 'Â': true, 'Ã': true, 'Ä': true, 'Å': true,
	'Ç': true, 'È': true, 'É': true, 'Ê': true, 'Ë': true,
	'Ì': true, 'Í': true, 'Î': true, 'Ï': true, 'Ñ': true,
	'Ò': true, 'Ó': true, 'Ô': true, 'Õ': true, 'Ö': true,
	'Ù': true, 'Ú': true, 'Û': true, 'Ü': true, 'Ý': true,
}

var endingPunct = map[rune]bool{
	'…': true, '.': true, '!': true, '?': true, '”': true, '’': true, ')': true,
}

// isIsolatedAccentedCapitalFalsePositive reports whether the only source of
// positive badness in s is (accented capital, ending punctuation) bigrams:
// removing the lead-byte/continuation-rendering bonus contribution of those
// pairs would bring badness to zero. Such strings are rejected
// outright (spec.md §4.5, §8 scenario 7) rather than run through the
// search, since they are a well-known false-positive shape and not a real
// mojibake signature.
func isIsolatedAccentedCapitalFalsePositive(s string) bool {
	runes := []rune(s)
	sawMatch := false
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		if accentedCapitals[prev] && endingPunct[cur] {
			sawMatch = true
			continue
		}
		if isUTF8LeadByteValue(prev) && isUTF8ContinuationRendering(cur) {
			// A lead/continuation bonus pair that isn't the accented
			// capital + ending punctuation shape: there is independent
			// evidence of real mojibake, so this is not an isolated
			// false positive.
			return false
		}
	}
	if !sawMatch {
		return false
	}
	// Bigram-table contributions (as opposed to the lead-byte bonus) still
	// need to be zero for this to count as "only" the false-positive shape.
	without := Badness(s) - BonusWeights.LeadByteContinuation*countAccentedCapitalEndingPunctPairs(runes)
	return without <= 0
}

func countAccentedCapitalEndingPunctPairs(runes []rune) int {
	n := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		if accentedCapitals[prev] && endingPunct[cur] &&
			isUTF8LeadByteValue(prev) && isUTF8ContinuationRendering(cur) {
			n++
		}
	}
	return n
}

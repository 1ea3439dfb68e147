package goftfy

// bigramWeights is the fixed Class x Class -> weight table the badness
// heuristic sums over adjacent codepoints. Missing pairs default to 0: the
// overwhelming majority of bigrams (letter/letter, digit/digit, letter/
// punctuation, and so on) are perfectly ordinary and must never contribute.
//
// The table only needs to be generous about mojibake signatures reachable
// from the mojibake codepoints set (classes C1, accented-letter-as-lead-byte,
// box, and the continuation-rendering classes); everything else stays at 0
// so real text is never penalized.
var bigramWeights = map[[2]class]int{
	// C1 controls bordering a letter or punctuation: classic Latin-1 /
	// Windows-1252 confusion (spec.md §4.2 bullet 1).
	{classC1, classLetter}:      1,
	{classLetter, classC1}:      1,
	{classC1, classAccented}:    1,
	{classAccented, classC1}:    1,
	{classC1, classOtherLetter}: 1,
	{classOtherLetter, classC1}: 1,
	{classC1, classPunctuation}: 1,
	{classPunctuation, classC1}: 1,
	{classC1, classQuote}:       1,
	{classQuote, classC1}:       1,
	{classC1, classDigit}:       1,
	{classDigit, classC1}:       1,

	// A bare combining mark next to a plain letter: NFC text almost never
	// shows a combining mark standing apart from its base (spec.md §4.2
	// bullet 2).
	{classMark, classLetter}:   1,
	{classLetter, classMark}:   1,
	{classMark, classAccented}: 1,
	{classAccented, classMark}: 1,

	// Latin bordering CJK with no punctuation between them (spec.md §4.2
	// bullet 3). The search applies an additional two-codepoint gate on
	// top of this before accepting a repair (see search.go).
	{classLetter, classCJK}:   2,
	{classCJK, classLetter}:   2,
	{classAccented, classCJK}: 2,
	{classCJK, classAccented}: 2,

	// Box-drawing glyphs next to ordinary letters: a hallmark of CP437
	// ASCII art misread as text, but only a mild signal on its own so that
	// genuine ASCII art does not always flip the search (spec.md §4.2, and
	// the CP437 false-positive guard in spec.md §8 scenario 6).
	{classBox, classLetter}:   1,
	{classLetter, classBox}:   1,
	{classBox, classAccented}: 1,
	{classAccented, classBox}: 1,
	{classBox, classDigit}:    1,
	{classDigit, classBox}:    1,

	// Unassigned/replacement codepoints are always suspicious next to text.
	{classUnassigned, classLetter}:      1,
	{classLetter, classUnassigned}:      1,
	{classUnassigned, classAccented}:    1,
	{classAccented, classUnassigned}:    1,
	{classUnassigned, classOtherLetter}: 1,
	{classOtherLetter, classUnassigned}: 1,
}

// leadByteBonus is the extra weight added per occurrence of a codepoint that
// looks like a UTF-8 lead byte immediately followed by a codepoint that
// looks like a UTF-8 continuation byte (spec.md §4.2 bullet 4: "a larger
// penalty when the pair is specifically a known UTF-8 -> Windows-1252
// mojibake prefix"). This is the single strongest signal the heuristic has,
// since it is what every "Ã©", "Â©", "â€™"-shaped mojibake run shares.
const leadByteBonus = 3

// BonusWeights exposes the tunable bonus term of the heuristic for
// regression testing (spec.md §9(b)). Its one field, LeadByteContinuation,
// is added once for every adjacent pair of a lead-byte-looking codepoint
// and a continuation-looking codepoint, whatever those codepoints are;
// common codepoints such as NBSP, the degree sign or the BOM get no weight
// of their own. Mutating it is safe between
// calls but not concurrently with a call in flight; the common case is to
// leave the defaults alone.
var BonusWeights = struct {
	LeadByteContinuation int
}{
	LeadByteContinuation: leadByteBonus,
}

// Badness sums per-bigram penalties over s, projecting each codepoint
// through category first, then adds the lead-byte/continuation-byte bonus
// for any adjacent pair that looks like a UTF-8 encode/decode mishap. It is
// pure, allocation-light (one pass, O(len(s))), and never mutates its input.
func Badness(s string) int {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}

	// Short circuit: no repair plan can touch a string whose every
	// codepoint falls outside the mojibake codepoints set (spec.md §4.1).
	anyMojibake := false
	for _, r := range runes {
		if mojibakeCodepoint(r) || isUTF8LeadByteValue(r) {
			anyMojibake = true
			break
		}
	}
	if !anyMojibake {
		return 0
	}

	total := 0
	prevClass := category(runes[0])
	for i := 1; i < len(runes); i++ {
		cur := runes[i]
		curClass := category(cur)

		// Whitespace other than plain space is a weak separator: it never
		// contributes, and it resets what "borders" the next codepoint.
		if prevClass != classOtherSpace && curClass != classOtherSpace {
			total += bigramWeights[[2]class{prevClass, curClass}]
		}

		if isUTF8LeadByteValue(runes[i-1]) && isUTF8ContinuationRendering(cur) {
			total += BonusWeights.LeadByteContinuation
		}

		prevClass = curClass
	}
	return total
}

// IsBad reports whether s has any positive badness.
func IsBad(s string) bool {
	return Badness(s) > 0
}

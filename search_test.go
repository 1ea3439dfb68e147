package goftfy

import "testing"

func TestFixEncodingSimpleMojibake(t *testing.T) {
	got := FixEncoding(schonMojibake(), DefaultConfig())
	if got != "schön" {
		t.Errorf("FixEncoding(%q) = %q, want schön", schonMojibake(), got)
	}
}

func TestFixEncodingCleanTextUnchanged(t *testing.T) {
	clean := "this is perfectly clean English text."
	if got := FixEncoding(clean, DefaultConfig()); got != clean {
		t.Errorf("FixEncoding(clean) = %q, want unchanged", got)
	}
}

func TestFixEncodingAndExplainRecordsPlan(t *testing.T) {
	explained := FixEncodingAndExplain(schonMojibake(), DefaultConfig())
	if explained.Fixed != "schön" {
		t.Errorf("Fixed = %q, want schön", explained.Fixed)
	}
	if len(explained.Plan) == 0 {
		t.Fatal("expected a non-empty plan for a repaired string")
	}
	if explained.Plan[0].Kind != stepEncode || explained.Plan[0].Encoding != string(encSloppyWindows1252) {
		t.Errorf("first step = %+v, want encode(sloppy-windows-1252)", explained.Plan[0])
	}
	replayed := ApplyPlan(schonMojibake(), explained.Plan)
	if replayed != explained.Fixed {
		t.Errorf("replaying recorded plan gave %q, want %q", replayed, explained.Fixed)
	}
}

func TestFixEncodingBoxDrawingUnaffected(t *testing.T) {
	art := "┌─┬─┐\n├─┼─┤\n└─┴─┘"
	if got := FixEncoding(art, DefaultConfig()); got != art {
		t.Errorf("FixEncoding(box drawing) = %q, want unchanged", got)
	}
}

func TestFixEncodingAccentedCapitalEllipsisFalsePositive(t *testing.T) {
	// "IL Y A MARQUÉ…" - an accented capital immediately followed by an
	// ellipsis looks, by the lead-byte bonus alone, like a mojibake
	// prefix, but is just an ordinary sentence ending. It must be left
	// alone (spec.md §8 scenario 7).
	s := "IL Y A MARQU" + string(rune(0x00C9)) + string(rune(0x2026))
	if got := FixEncoding(s, DefaultConfig()); got != s {
		t.Errorf("FixEncoding(accented-capital-ellipsis) = %q, want unchanged %q", got, s)
	}
}

func TestFixEncodingLossyReplacementCharacter(t *testing.T) {
	// A mojibake run for a curly quote where the middle byte was
	// destroyed and replaced with U+FFFD before reaching us.
	s := "x" + string(rune(0x00E2)) + string(rune(0x0080)) + "�" + "y"
	got := FixEncoding(s, DefaultConfig())
	if got == s {
		t.Errorf("FixEncoding(lossy sequence) left %q unchanged, expected the run quarantined to a single U+FFFD", s)
	}
	if !HasReplacementChars(got) {
		t.Errorf("FixEncoding(lossy sequence) = %q, want a surviving U+FFFD", got)
	}
}

func TestPassesCJKGateRejectsSingle(t *testing.T) {
	before := "hello"
	afterOne := "hello" + "中"
	if passesCJKGate(before, afterOne) {
		t.Error("passesCJKGate should reject a single new adjacent CJK codepoint")
	}
	afterTwo := "hello" + "中文"
	if !passesCJKGate(before, afterTwo) {
		t.Error("passesCJKGate should accept two or more new CJK codepoints")
	}
}

func TestPassesCyrillicGateRequiresTwoAndNoLatinLeft(t *testing.T) {
	before := "hello"
	oneNew := "hello" + "п"
	if passesCyrillicGate(before, oneNew) {
		t.Error("passesCyrillicGate should reject a single new Cyrillic letter")
	}
	twoNewButLatinRemains := "hello" + "пр"
	if passesCyrillicGate(before, twoNewButLatinRemains) {
		t.Error("passesCyrillicGate should reject when Latin letters remain")
	}
	allCyrillic := "привет"
	if !passesCyrillicGate("", allCyrillic) {
		t.Error("passesCyrillicGate should accept when no Latin letters remain and 2+ Cyrillic letters are new")
	}
}

func TestAllOutsideMojibakeSet(t *testing.T) {
	if !allOutsideMojibakeSet("hello world 123") {
		t.Error("plain ASCII should be entirely outside the mojibake set")
	}
	if allOutsideMojibakeSet(schonMojibake()) {
		t.Error("mojibake string should not be entirely outside the mojibake set")
	}
}

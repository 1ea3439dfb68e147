package goftfy

import "testing"

func TestFixRepairsMojibake(t *testing.T) {
	got := Fix(schonMojibake())
	if got != "schön" {
		t.Errorf("Fix(%q) = %q, want schön", schonMojibake(), got)
	}
}

func TestFixLeavesCleanTextAlone(t *testing.T) {
	clean := "nothing wrong with this sentence."
	if got := Fix(clean); got != clean {
		t.Errorf("Fix(clean) = %q, want unchanged", got)
	}
}

func TestFixDecodesHTMLEntities(t *testing.T) {
	s := "Tom &amp; Jerry"
	want := "Tom & Jerry"
	if got := Fix(s); got != want {
		t.Errorf("Fix(%q) = %q, want %q", s, got, want)
	}
}

func TestFixNormalizesLineBreaks(t *testing.T) {
	s := "one\r\ntwo\rthree"
	want := "one\ntwo\nthree"
	if got := Fix(s); got != want {
		t.Errorf("Fix(line breaks) = %q, want %q", got, want)
	}
}

func TestFixRemovesBOM(t *testing.T) {
	s := "\xef\xbb\xbfhello"
	if got := Fix(s); got != "hello" {
		t.Errorf("Fix(BOM-prefixed) = %q, want hello", got)
	}
}

func TestFixWithOptionsUncurlQuotes(t *testing.T) {
	opts := DefaultOptions()
	opts.UncurlQuotes = true
	s := "“hello”"
	got := FixWithOptions(s, opts)
	want := `"hello"`
	if got != want {
		t.Errorf("FixWithOptions(uncurl) = %q, want %q", got, want)
	}
}

func TestFixWithOptionsUncurlQuotesOffByDefault(t *testing.T) {
	s := "“hello”"
	if got := Fix(s); got != s {
		t.Errorf("Fix should leave curly quotes alone by default, got %q", got)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("clean ASCII text") {
		t.Error("IsValid(clean) = false, want true")
	}
	if IsValid(schonMojibake()) {
		t.Error("IsValid(mojibake) = true, want false")
	}
}

func TestFixSlice(t *testing.T) {
	in := []string{schonMojibake(), "clean"}
	out := FixSlice(in)
	if out[0] != "schön" || out[1] != "clean" {
		t.Errorf("FixSlice = %v", out)
	}
}

func TestFixMap(t *testing.T) {
	in := map[string]string{"a": schonMojibake()}
	out := FixMap(in)
	if out["a"] != "schön" {
		t.Errorf("FixMap = %v", out)
	}
}

func TestFixLines(t *testing.T) {
	in := schonMojibake() + "\nclean line"
	out := FixLines(in)
	want := "schön\nclean line"
	if out != want {
		t.Errorf("FixLines = %q, want %q", out, want)
	}
}

func TestCountProblems(t *testing.T) {
	if got := CountProblems("clean text"); got != 0 {
		t.Errorf("CountProblems(clean) = %d, want 0", got)
	}
}

func TestFixAndExplainProducesPlan(t *testing.T) {
	explained := FixAndExplain(schonMojibake(), DefaultOptions())
	if explained.Fixed != "schön" {
		t.Errorf("Fixed = %q, want schön", explained.Fixed)
	}
	if len(explained.Plan) == 0 {
		t.Error("expected a non-empty plan")
	}
}

func TestExplainReportsNoChanges(t *testing.T) {
	if got := Explain("same", "same"); got != "No changes needed." {
		t.Errorf("Explain(identical) = %q", got)
	}
}

func TestAnalyzeString(t *testing.T) {
	infos := AnalyzeString("aé")
	if len(infos) != 2 {
		t.Fatalf("AnalyzeString returned %d entries, want 2", len(infos))
	}
	if infos[0].Rune != 'a' || infos[0].Mojibake {
		t.Errorf("infos[0] = %+v", infos[0])
	}
	if infos[1].Rune != 'é' {
		t.Errorf("infos[1] = %+v", infos[1])
	}
}

func TestHasSurrogates(t *testing.T) {
	// "\xed\xa0\x80" is U+D800 in its raw three-byte surrogate-shaped
	// encoding; surrogates never appear as literal rune values from a
	// normal Go string conversion, so the byte form is what HasSurrogates
	// actually needs to detect (see its doc comment).
	if !HasSurrogates("\xed\xa0\x80") {
		t.Error("HasSurrogates should detect a lone surrogate")
	}
	if HasSurrogates("clean") {
		t.Error("HasSurrogates(clean) = true, want false")
	}
}

func TestHasReplacementChars(t *testing.T) {
	if !HasReplacementChars("oops �") {
		t.Error("HasReplacementChars should detect U+FFFD")
	}
	if HasReplacementChars("clean") {
		t.Error("HasReplacementChars(clean) = true, want false")
	}
}

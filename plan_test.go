package goftfy

import "testing"

func TestStepString(t *testing.T) {
	if got := encodeStep(encSloppyWindows1252).String(); got != "encode(sloppy-windows-1252)" {
		t.Errorf("Step.String() = %q", got)
	}
	if got := decodeStep(encUTF8).String(); got != "decode(utf-8)" {
		t.Errorf("Step.String() = %q", got)
	}
	if got := transformStep(TransformFixSurrogates).String(); got != "transform(fix_surrogates)" {
		t.Errorf("Step.String() = %q", got)
	}
}

func TestApplyPlanRoundTrip(t *testing.T) {
	plan := Plan{encodeStep(encSloppyWindows1252), decodeStep(encUTF8)}
	s := schonMojibake()
	got := ApplyPlan(s, plan)
	if got != "schön" {
		t.Errorf("ApplyPlan = %q, want schön", got)
	}
}

func TestApplyPlanSkipsFailingStep(t *testing.T) {
	// A decode step that fails (invalid byte sequence for the target
	// encoding) should be skipped, not abort the remaining plan.
	plan := Plan{decodeStep(encUTF8), transformStep(TransformUncurlQuotes)}
	s := "“hi”" + "\xff"
	got := ApplyPlan(s, plan)
	// The decode(utf-8) step fails outright on invalid bytes and is
	// skipped, leaving the string untouched; uncurl_quotes then runs.
	want := uncurlQuotes(s)
	if got != want {
		t.Errorf("ApplyPlan = %q, want %q", got, want)
	}
}

func TestApplyPlanUnknownEncodingSkipped(t *testing.T) {
	plan := Plan{{Kind: stepEncode, Encoding: "not-a-real-encoding"}}
	s := "hello"
	if got := ApplyPlan(s, plan); got != s {
		t.Errorf("ApplyPlan(unknown encoding) = %q, want unchanged %q", got, s)
	}
}

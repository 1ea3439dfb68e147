// Package goftfy repairs mojibake: text that was encoded in one character
// encoding and decoded as though it were another, producing a garbled but
// often losslessly-reversible sequence of codepoints. It is a Go rework of
// the encoding-repair core of the Python ftfy library by Robyn Speer.
//
// The package exposes both the encoding-repair core (Badness, IsBad,
// FixEncoding, FixEncodingAndExplain, ApplyPlan) and a thin driver (Fix,
// FixWithOptions) that sequences the core with the surrounding textual
// fixes ftfy also ships: HTML-entity decoding, terminal-escape stripping,
// curly-quote folding, BOM removal, line-break normalization, and Unicode
// normal-form selection. Control-character removal is not part of that
// pipeline.
//
// Basic usage:
//
//	fixed := goftfy.Fix("schÃ¶n")
//	// fixed == "schön"
//
// For more control use FixWithOptions:
//
//	opts := goftfy.DefaultOptions()
//	opts.UncurlQuotes = true
//	fixed := goftfy.FixWithOptions(text, opts)
package goftfy

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Options is the driver-level configuration: it is a type alias for Config
// (the core's TextFixerConfig), so callers constructing Options get the
// core settings at no extra cost. FixWithOptions reads Config.* for the
// outer-fix booleans described in config.go.
type Options = Config

// DefaultOptions returns the recommended default options (mirrors ftfy's
// own defaults, and the teacher's DefaultOptions before it).
func DefaultOptions() Options {
	return DefaultConfig()
}

// Fix applies the default pipeline to text and returns the corrected
// result.
func Fix(text string) string {
	return FixWithOptions(text, DefaultOptions())
}

// FixWithOptions runs the fixed-point driver described in spec.md §4.5's
// state machine: apply the enabled pre-encoding fixes (terminal escapes,
// surrogates, quote uncurling), run the encoding-repair core, apply the
// enabled post-encoding fixes (HTML entities, line breaks, BOM) and
// normalization, and repeat until the string stops changing or
// MaxIterations is hit. Auxiliary textual fixes can raise badness (e.g.
// uncurling a quote that was part of a legitimate typographic flourish), so
// the driver is not required to be monotone the way the core's search is;
// it only needs to reach a fixed point (spec.md §3 invariants).
func FixWithOptions(text string, opts Options) string {
	iterations := opts.maxIterations()
	for i := 0; i < iterations; i++ {
		next := fixOnePass(text, opts)
		if next == text {
			return next
		}
		text = next
	}
	return text
}

func fixOnePass(text string, opts Options) string {
	if opts.RemoveTerminalEscapes {
		text = removeTerminalEscapes(text)
	}
	if opts.FixSurrogates {
		text = fixSurrogates(text)
	}
	if opts.UncurlQuotes {
		text = uncurlQuotes(text)
	}
	text = FixEncoding(text, opts)
	if opts.FixHTMLEntities {
		text = fixHTMLEntities(text)
	}
	if opts.FixLineBreaks {
		text = fixLineBreaks(text)
	}
	if opts.RemoveBOM {
		text = removeBOM(text)
	}
	if opts.NormalizationForm != "" {
		text = normalizeForm(text, opts.NormalizationForm)
	}
	return text
}

// FixAndExplain is Fix's explained counterpart, for completeness with the
// core's FixEncodingAndExplain (spec.md §6). It records every encoding
// repair plan accumulated across passes of the driver loop; transforms the
// driver runs outside the core (entity decoding, line breaks, BOM removal,
// normalization) are not represented as Steps, matching spec.md §3's
// invariant that the plan is faithful "modulo transforms the driver ran
// outside the search".
func FixAndExplain(text string, opts Options) ExplainedText {
	iterations := opts.maxIterations()
	var plan Plan
	for i := 0; i < iterations; i++ {
		pass := text
		if opts.RemoveTerminalEscapes {
			pass = removeTerminalEscapes(pass)
		}
		if opts.FixSurrogates {
			pass = fixSurrogates(pass)
		}
		if opts.UncurlQuotes {
			pass = uncurlQuotes(pass)
		}
		explained := FixEncodingAndExplain(pass, opts)
		pass = explained.Fixed
		plan = append(plan, explained.Plan...)
		if opts.FixHTMLEntities {
			pass = fixHTMLEntities(pass)
		}
		if opts.FixLineBreaks {
			pass = fixLineBreaks(pass)
		}
		if opts.RemoveBOM {
			pass = removeBOM(pass)
		}
		if opts.NormalizationForm != "" {
			pass = normalizeForm(pass, opts.NormalizationForm)
		}
		if pass == text {
			return ExplainedText{Fixed: pass, Plan: plan}
		}
		text = pass
	}
	return ExplainedText{Fixed: text, Plan: plan}
}

// Explain returns a human-readable description of what fixes were applied
// between original and fixed. Explain does not accept Options, so it
// infers applied stages by replaying the default pipeline in order and
// recording which stages changed the text.
func Explain(original, fixed string) string {
	if original == fixed {
		return "No changes needed."
	}

	text := original
	var notes []string
	stage := func(name string, fn func(string) string) {
		newText := fn(text)
		if newText != text {
			notes = append(notes, name)
			text = newText
		}
	}

	opts := DefaultOptions()
	if opts.RemoveTerminalEscapes {
		stage("removed terminal escapes", removeTerminalEscapes)
	}
	if opts.FixSurrogates {
		stage("fixed surrogates", fixSurrogates)
	}
	stage("fixed mojibake encoding", func(s string) string { return FixEncoding(s, opts) })
	if opts.FixHTMLEntities {
		stage("decoded HTML entities", fixHTMLEntities)
	}
	if opts.FixLineBreaks {
		stage("normalized line breaks", fixLineBreaks)
	}
	if opts.RemoveBOM {
		stage("removed byte order mark", removeBOM)
	}
	if opts.NormalizationForm != "" {
		stage("normalized unicode", func(s string) string { return normalizeForm(s, opts.NormalizationForm) })
	}

	if len(notes) == 0 {
		return "Fixes applied: (unable to infer stages)."
	}
	msg := "Fixes applied: " + strings.Join(notes, ", ") + "."
	if text != fixed {
		msg += " (inferred using default options; provided fixed output differs)"
	}
	return msg
}

// IsValid reports whether text is clean and needs no fixes under the
// default pipeline.
func IsValid(text string) bool {
	return Fix(text) == text
}

// FixLines fixes each line of a multi-line string independently.
func FixLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = Fix(line)
	}
	return strings.Join(lines, "\n")
}

// FixSlice fixes every string in a slice.
func FixSlice(texts []string) []string {
	result := make([]string, len(texts))
	for i, t := range texts {
		result[i] = Fix(t)
	}
	return result
}

// FixMap fixes every value in a map[string]string.
func FixMap(m map[string]string) map[string]string {
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = Fix(v)
	}
	return result
}

// CountProblems approximates the number of characters that were encoding
// artifacts, as the rune-count difference between text and its fixed form.
// It never returns a negative count, since some fixes (entity decoding) can
// shorten or lengthen text without indicating a problem count in either
// direction.
func CountProblems(text string) int {
	fixed := Fix(text)
	if text == fixed {
		return 0
	}
	diff := utf8.RuneCountInString(text) - utf8.RuneCountInString(fixed)
	if diff < 0 {
		return 0
	}
	return diff
}

// normalizeForm applies Unicode normalization (NFC, NFD, NFKC, NFKD) using
// golang.org/x/text/unicode/norm, exactly as the teacher's driver already
// did.
func normalizeForm(text, form string) string {
	switch strings.ToUpper(strings.TrimSpace(form)) {
	case "NFC":
		return norm.NFC.String(text)
	case "NFD":
		return norm.NFD.String(text)
	case "NFKC":
		return norm.NFKC.String(text)
	case "NFKD":
		return norm.NFKD.String(text)
	default:
		return text
	}
}

// ansiEscape matches ANSI terminal escape sequences.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]|\x1b[^[\\]`)

func removeTerminalEscapes(text string) string {
	return ansiEscape.ReplaceAllString(text, "")
}

func fixHTMLEntities(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	return html.UnescapeString(text)
}

func fixLineBreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, " ", "\n")
	text = strings.ReplaceAll(text, " ", "\n")
	return text
}

func removeBOM(text string) string {
	return strings.TrimPrefix(text, "\xef\xbb\xbf")
}

// fixControlChars strips C0 and C1 control characters other than TAB, LF,
// and CR. It is not wired into the default pipeline (ftfy's own default
// leaves control characters alone outside of the targeted C1 mojibake
// re-decode in fix_c1_controls), but is kept as a building block external
// drivers can call directly.
func fixControlChars(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\t' || r == '\n' || r == '\r' {
			b.WriteRune(r)
		} else if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			continue
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

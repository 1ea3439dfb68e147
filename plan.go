package goftfy

import "fmt"

// stepKind distinguishes the three shapes a Step can take (spec.md §3).
type stepKind byte

const (
	stepEncode stepKind = iota
	stepDecode
	stepTransform
)

// Transform names, for Step values of kind stepTransform (spec.md §3).
const (
	TransformUnescapeHTML              = "unescape_html"
	TransformUncurlQuotes               = "uncurl_quotes"
	TransformFixSurrogates              = "fix_surrogates"
	TransformFixC1Controls              = "fix_c1_controls"
	TransformRestoreByteA0              = "restore_byte_a0"
	TransformReplaceLossySequences      = "replace_lossy_sequences"
	TransformDecodeInconsistentUTF8     = "decode_inconsistent_utf8"
	TransformFixPartialUTF8PunctIn1252  = "fix_partial_utf8_punct_in_1252"
)

// Step is a single tagged transformation: encode into an encoding, decode
// from an encoding, or run a named auxiliary transform (spec.md §3).
type Step struct {
	Kind     stepKind
	Encoding string // set when Kind is stepEncode or stepDecode
	Name     string // set when Kind is stepTransform
}

func encodeStep(id encodingID) Step { return Step{Kind: stepEncode, Encoding: string(id)} }
func decodeStep(id encodingID) Step { return Step{Kind: stepDecode, Encoding: string(id)} }
func transformStep(name string) Step { return Step{Kind: stepTransform, Name: name} }

// String renders a Step the way a plan would be displayed to a human, e.g.
// "encode(sloppy-windows-1252)" or "transform(fix_surrogates)".
func (s Step) String() string {
	switch s.Kind {
	case stepEncode:
		return fmt.Sprintf("encode(%s)", s.Encoding)
	case stepDecode:
		return fmt.Sprintf("decode(%s)", s.Encoding)
	default:
		return fmt.Sprintf("transform(%s)", s.Name)
	}
}

// Plan is an ordered sequence of steps that, applied to a string, performs a
// repair; re-applicable to other strings to mimic the same repair
// (spec.md §3, GLOSSARY).
type Plan []Step

// ExplainedText pairs a repaired string with the plan that produced it
// (spec.md §3).
type ExplainedText struct {
	Fixed string
	Plan  Plan
}

// apply runs a single step against s, returning the transformed string and
// whether the step succeeded. A codec error, an unknown encoding or an
// unknown transform name is reported via ok=false; the caller decides what
// that means (reject a candidate during search, or skip the step during
// ApplyPlan). A known transform whose pattern does not match returns s
// unchanged with ok=true.
func (st Step) apply(s string) (string, bool) {
	switch st.Kind {
	case stepEncode:
		c, found := lookupCodec(encodingID(st.Encoding))
		if !found {
			return s, false
		}
		b, err := c.encode(s)
		if err != nil {
			return s, false
		}
		return string(b), true
	case stepDecode:
		c, found := lookupCodec(encodingID(st.Encoding))
		if !found {
			return s, false
		}
		out, err := c.decode([]byte(s))
		if err != nil {
			return s, false
		}
		return out, true
	case stepTransform:
		fn, found := auxiliaryTransforms[st.Name]
		if !found {
			return s, false
		}
		return fn(s), true
	default:
		return s, false
	}
}

// ApplyPlan re-executes a recorded plan on s. Individual steps may legally
// fail (an encode/decode step hits a codec error, or names an unknown
// encoding or transform); a failing step is skipped and the plan continues
// (spec.md §6, §7). A transform whose pattern does not match leaves s as it
// is.
func ApplyPlan(s string, plan Plan) string {
	for _, step := range plan {
		if out, ok := step.apply(s); ok {
			s = out
		}
	}
	return s
}

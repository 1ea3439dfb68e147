package goftfy

// Config is spec.md's TextFixerConfig: an immutable-during-a-call record of
// which transforms the driver and the core may apply. The core itself only
// reads DecodeInconsistentUTF8, FixC1Controls, RestoreByteA0,
// ReplaceLossySequences, and MaxIterations; the remaining fields belong to
// the driver (Fix/FixWithOptions in driver.go), not to the encoding-repair
// search, per spec.md §3 and §6.
type Config struct {
	// --- read by the encoding-repair core (spec.md §6) ---

	// DecodeInconsistentUTF8 allows the decode_inconsistent_utf8 auxiliary
	// repair as a candidate step.
	DecodeInconsistentUTF8 bool
	// FixC1Controls allows the C1-control re-decode as a candidate step.
	FixC1Controls bool
	// RestoreByteA0 allows the dropped-NBSP restoration as a candidate step.
	RestoreByteA0 bool
	// ReplaceLossySequences allows U+FFFD quarantining as a candidate step.
	ReplaceLossySequences bool
	// MaxIterations caps the search depth. Zero means the default of 16.
	MaxIterations int

	// --- read only by the driver (spec.md §4.5 state machine) ---

	FixHTMLEntities       bool
	FixLineBreaks         bool
	FixSurrogates         bool
	RemoveBOM             bool
	UncurlQuotes          bool
	RemoveTerminalEscapes bool
	NormalizationForm     string // "", "NFC", "NFD", "NFKC", "NFKD"
}

const defaultMaxIterations = 16

// maxIterations returns cfg.MaxIterations, defaulting to 16 when unset.
func (cfg Config) maxIterations() int {
	if cfg.MaxIterations <= 0 {
		return defaultMaxIterations
	}
	return cfg.MaxIterations
}

// DefaultConfig returns the configuration the driver uses by default: every
// repair enabled except quote-straightening and terminal-escape stripping,
// which are left off, and NFC normalization (mirrors
// the conservative default ftfy ships, matching the teacher's
// DefaultOptions).
func DefaultConfig() Config {
	return Config{
		DecodeInconsistentUTF8: true,
		FixC1Controls:          true,
		RestoreByteA0:          true,
		ReplaceLossySequences:  true,
		MaxIterations:          defaultMaxIterations,

		FixHTMLEntities:       true,
		FixLineBreaks:         true,
		FixSurrogates:         true,
		RemoveBOM:             true,
		UncurlQuotes:          false,
		RemoveTerminalEscapes: false,
		NormalizationForm:     "NFC",
	}
}

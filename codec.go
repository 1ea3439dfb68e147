package goftfy

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// encodingID is the closed set of encoding identifiers from spec.md §3.
type encodingID string

const (
	encUTF8             encodingID = "utf-8"
	encUTF8Variants     encodingID = "utf-8-variants"
	encLatin1           encodingID = "latin-1"
	encSloppyWindows1250 encodingID = "sloppy-windows-1250"
	encSloppyWindows1251 encodingID = "sloppy-windows-1251"
	encSloppyWindows1252 encodingID = "sloppy-windows-1252"
	encSloppyWindows1253 encodingID = "sloppy-windows-1253"
	encSloppyWindows1254 encodingID = "sloppy-windows-1254"
	encSloppyWindows1257 encodingID = "sloppy-windows-1257"
	encMacRoman         encodingID = "macroman"
	encCP437            encodingID = "cp437"
)

// errUndecodable is returned by a codec when some part of the input cannot
// be represented; the search treats it as a soft signal (spec.md §7): the
// candidate is discarded, nothing panics, nothing propagates to the caller.
var errUndecodable = errors.New("goftfy: undecodable candidate")

// codec is the minimal encode/decode surface the search needs. Strict
// codecs (backed by golang.org/x/text/encoding/charmap) fail on any byte or
// codepoint they cannot round-trip; sloppyCodec relaxes that for the five
// undefined byte slots of certain Windows codepages.
type codec interface {
	// encode turns a Unicode string into the bytes it would have been in
	// this encoding, failing if any codepoint is not representable.
	encode(s string) ([]byte, error)
	// decode turns bytes in this encoding into a Unicode string, failing
	// if any byte sequence is not valid.
	decode(b []byte) (string, error)
}

// charmapCodec adapts a golang.org/x/text/encoding.Encoding to codec.
type charmapCodec struct {
	enc encoding.Encoding
}

func (c charmapCodec) encode(s string) ([]byte, error) {
	out, _, err := transform.Bytes(c.enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, errUndecodable
	}
	return out, nil
}

func (c charmapCodec) decode(b []byte) (string, error) {
	out, _, err := transform.Bytes(c.enc.NewDecoder(), b)
	if err != nil {
		return "", errUndecodable
	}
	return string(out), nil
}

// sloppyCodec wraps a strict Windows codepage codec so that its
// undefined byte slots round-trip to the Latin-1 codepoint of the same
// byte value, in both directions (spec.md §4.3). Real-world mojibake
// corpora contain these bytes; a strict codec would refuse the whole
// candidate over a single byte.
type sloppyCodec struct {
	strict    codec
	undefined map[byte]bool
}

func newSloppyCodec(strict codec, undefinedBytes ...byte) sloppyCodec {
	u := make(map[byte]bool, len(undefinedBytes))
	for _, b := range undefinedBytes {
		u[b] = true
	}
	return sloppyCodec{strict: strict, undefined: u}
}

// encode splices the undefined-slot bytes straight through and defers to
// the strict encoder, one codepoint at a time, for everything else. One
// codepoint at a time is the simplest way to keep the undefined slots from
// needing any lookahead, and the strings this runs on are short.
func (c sloppyCodec) encode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r <= 0xFF && c.undefined[byte(r)] {
			out = append(out, byte(r))
			continue
		}
		chunk, err := c.strict.encode(string(r))
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (c sloppyCodec) decode(b []byte) (string, error) {
	// Decode byte-at-a-time when we hit an undefined slot so that a
	// single undefined byte doesn't fail decoding of the whole buffer;
	// otherwise defer to the strict decoder for normal runs, which is
	// both faster and preserves multi-byte codepages' run decoding.
	hasUndefined := false
	for _, bb := range b {
		if c.undefined[bb] {
			hasUndefined = true
			break
		}
	}
	if !hasUndefined {
		return c.strict.decode(b)
	}

	var out []rune
	start := 0
	flush := func(end int) error {
		if end <= start {
			return nil
		}
		s, err := c.strict.decode(b[start:end])
		if err != nil {
			return err
		}
		out = append(out, []rune(s)...)
		return nil
	}
	for i, bb := range b {
		if c.undefined[bb] {
			if err := flush(i); err != nil {
				return "", err
			}
			out = append(out, rune(bb))
			start = i + 1
		}
	}
	if err := flush(len(b)); err != nil {
		return "", err
	}
	return string(out), nil
}

// latin1Codec is the identity byte<->codepoint mapping for U+0000..U+00FF.
// golang.org/x/text's ISO8859_1 codec already behaves this way; latin1Codec
// exists so latin-1 composes with sloppyCodec's codec interface without an
// extra charmap round trip for the common case.
type latin1Codec struct{}

func (latin1Codec) encode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, errUndecodable
		}
		out = append(out, byte(r))
	}
	return out, nil
}

func (latin1Codec) decode(b []byte) (string, error) {
	out := make([]rune, len(b))
	for i, bb := range b {
		out[i] = rune(bb)
	}
	return string(out), nil
}

// utf8Codec is strict standard UTF-8: encoding always succeeds (every
// Unicode scalar value is representable), decoding fails on the first
// invalid byte sequence.
type utf8Codec struct{}

func (utf8Codec) encode(s string) ([]byte, error) {
	return []byte(s), nil
}

func (utf8Codec) decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errUndecodable
	}
	return string(b), nil
}

// utf8VariantsCodec decodes standard UTF-8 plus the CESU-8 / Java modified
// UTF-8 idiom of encoding a non-BMP scalar value as two separate three-byte
// sequences for its UTF-16 surrogate pair (spec.md §4.3). Encoding always
// emits standard UTF-8: the variant acceptance is one-directional, which is
// why this codec's encode is identical to utf8Codec's.
type utf8VariantsCodec struct{}

func (utf8VariantsCodec) encode(s string) ([]byte, error) {
	return []byte(s), nil
}

func (utf8VariantsCodec) decode(b []byte) (string, error) {
	var out []rune
	i := 0
	for i < len(b) {
		if hi, lo, n, ok := decodeCESU8Pair(b[i:]); ok {
			out = append(out, combineSurrogates(hi, lo))
			i += n
			continue
		}
		r, size := utf8DecodeOne(b[i:])
		if size == 0 {
			return "", errUndecodable
		}
		out = append(out, r)
		i += size
	}
	return string(out), nil
}

// utf8DecodeOne decodes a single standard UTF-8 codepoint, tolerating a lone
// three-byte surrogate encoding as a transient value (spec.md §3: surrogates
// are tolerated only between the surrogate-fix step and its caller).
func utf8DecodeOne(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		if hi, n, ok := decodeRawSurrogate(b); ok {
			return hi, n
		}
		return 0, 0
	}
	return r, size
}

// decodeRawSurrogate decodes the three-byte UTF-8-shaped encoding of a lone
// surrogate codepoint (U+D800..U+DFFF), which utf8.DecodeRune refuses as
// ill-formed.
func decodeRawSurrogate(b []byte) (rune, int, bool) {
	if len(b) < 3 {
		return 0, 0, false
	}
	if b[0] < 0xED || b[0] > 0xED {
		return 0, 0, false
	}
	if b[1] < 0xA0 || b[1] > 0xBF {
		return 0, 0, false
	}
	if b[2] < 0x80 || b[2] > 0xBF {
		return 0, 0, false
	}
	r := rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
	return r, 3, true
}

// decodeCESU8Pair recognizes "ED A0-AF xx ED B0-BF xx", the six-byte
// CESU-8/Java-modified-UTF-8 encoding of a surrogate pair, and returns the
// high and low surrogate values plus the number of bytes consumed.
func decodeCESU8Pair(b []byte) (hi, lo rune, n int, ok bool) {
	if len(b) < 6 {
		return 0, 0, 0, false
	}
	h, hn, hok := decodeRawSurrogate(b[:3])
	if !hok || h < 0xD800 || h > 0xDBFF {
		return 0, 0, 0, false
	}
	l, ln, lok := decodeRawSurrogate(b[3:6])
	if !lok || l < 0xDC00 || l > 0xDFFF {
		return 0, 0, 0, false
	}
	return h, l, hn + ln, true
}

// combineSurrogates stitches a UTF-16 surrogate pair into its scalar value.
func combineSurrogates(hi, lo rune) rune {
	return ((hi - 0xD800) << 10 | (lo - 0xDC00)) + 0x10000
}

// codecRegistry maps each encoding identifier to its codec implementation.
// It is built once at package init and read only thereafter (spec.md §5).
var codecRegistry = map[encodingID]codec{
	encUTF8:         utf8Codec{},
	encUTF8Variants: utf8VariantsCodec{},
	encLatin1:       latin1Codec{},
	encMacRoman:     charmapCodec{enc: charmap.Macintosh},
	encCP437:        charmapCodec{enc: charmap.CodePage437},

	encSloppyWindows1250: newSloppyCodec(charmapCodec{enc: charmap.Windows1250}, 0x81, 0x83, 0x88, 0x90, 0x98),
	encSloppyWindows1251: newSloppyCodec(charmapCodec{enc: charmap.Windows1251}, 0x98),
	encSloppyWindows1252: newSloppyCodec(charmapCodec{enc: charmap.Windows1252}, 0x81, 0x8D, 0x8F, 0x90, 0x9D),
	encSloppyWindows1253: newSloppyCodec(charmapCodec{enc: charmap.Windows1253}, 0x81, 0x88, 0x8A, 0x8C, 0x8D, 0x8E, 0x8F, 0x90, 0x98, 0x9A, 0x9C, 0x9D, 0x9E, 0x9F, 0xAA, 0xD2, 0xFF),
	encSloppyWindows1254: newSloppyCodec(charmapCodec{enc: charmap.Windows1254}, 0x81, 0x8D, 0x8E, 0x8F, 0x90, 0x9D, 0x9E),
	encSloppyWindows1257: newSloppyCodec(charmapCodec{enc: charmap.Windows1257}, 0x81, 0x83, 0x88, 0x8A, 0x8C, 0x90, 0x98, 0x9A, 0x9C, 0x9F),
}

func lookupCodec(id encodingID) (codec, bool) {
	c, ok := codecRegistry[id]
	return c, ok
}

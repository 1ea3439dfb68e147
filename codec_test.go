package goftfy

import "testing"

func TestLatin1Codec(t *testing.T) {
	c := latin1Codec{}
	b, err := c.encode("café")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{'c', 'a', 'f', 0xE9}
	if string(b) != string(want) {
		t.Errorf("encode(café) = %v, want %v", b, want)
	}
	s, err := c.decode(want)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s != "café" {
		t.Errorf("decode = %q, want café", s)
	}
}

func TestLatin1CodecRejectsNonLatin1(t *testing.T) {
	c := latin1Codec{}
	if _, err := c.encode("中"); err == nil {
		t.Error("expected error encoding a CJK codepoint as Latin-1")
	}
}

func TestUTF8Codec(t *testing.T) {
	c := utf8Codec{}
	b, err := c.encode("héllo")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s, err := c.decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s != "héllo" {
		t.Errorf("round trip = %q, want héllo", s)
	}
	if _, err := c.decode([]byte{0xFF, 0xFE}); err == nil {
		t.Error("expected error decoding invalid UTF-8")
	}
}

func TestSloppyWindows1252UndefinedByte(t *testing.T) {
	codec, ok := lookupCodec(encSloppyWindows1252)
	if !ok {
		t.Fatal("sloppy-windows-1252 not registered")
	}
	// 0x81 is undefined in strict Windows-1252; the sloppy codec must
	// round-trip it to U+0081 rather than fail.
	s, err := codec.decode([]byte{'a', 0x81, 'b'})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := "a" + string(rune(0x0081)) + "b"; s != want {
		t.Errorf("decode = %q, want %q", s, want)
	}
	b, err := codec.encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != "a\x81b" {
		t.Errorf("encode round trip = %v", b)
	}
}

func TestSloppyWindows1252DefinedByte(t *testing.T) {
	codec, ok := lookupCodec(encSloppyWindows1252)
	if !ok {
		t.Fatal("sloppy-windows-1252 not registered")
	}
	// 0x93 is LEFT DOUBLE QUOTATION MARK (U+201C) in Windows-1252, a
	// normally-defined slot the sloppy codec must still delegate to the
	// strict charmap for.
	s, err := codec.decode([]byte{0x93})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s != string(rune(0x201C)) {
		t.Errorf("decode(0x93) = %q, want U+201C", s)
	}
}

func TestUTF8VariantsCodecDecodesCESU8(t *testing.T) {
	c := utf8VariantsCodec{}
	// U+10000 (LINEAR B SYLLABLE B008 A) as a CESU-8 surrogate pair:
	// high surrogate U+D800, low surrogate U+DC00, each three-byte
	// UTF-8-shaped.
	cesu8 := []byte{0xED, 0xA0, 0x80, 0xED, 0xB0, 0x80}
	s, err := c.decode(cesu8)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len([]rune(s)) != 1 || []rune(s)[0] != 0x10000 {
		t.Errorf("decode(CESU-8) = %q, want single rune U+10000", s)
	}
}

func TestUTF8VariantsCodecDecodesStandardUTF8(t *testing.T) {
	c := utf8VariantsCodec{}
	s, err := c.decode([]byte("héllo"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s != "héllo" {
		t.Errorf("decode = %q, want héllo", s)
	}
}

func TestCombineSurrogates(t *testing.T) {
	if got := combineSurrogates(0xD800, 0xDC00); got != 0x10000 {
		t.Errorf("combineSurrogates(D800,DC00) = %x, want 10000", got)
	}
}

func TestAllSloppyCodepagesRegistered(t *testing.T) {
	ids := []encodingID{
		encSloppyWindows1250, encSloppyWindows1251, encSloppyWindows1252,
		encSloppyWindows1253, encSloppyWindows1254, encSloppyWindows1257,
		encMacRoman, encCP437, encLatin1, encUTF8, encUTF8Variants,
	}
	for _, id := range ids {
		if _, ok := lookupCodec(id); !ok {
			t.Errorf("encoding %q not registered", id)
		}
	}
}

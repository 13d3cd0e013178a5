package parse

// bytes.go converts between strings and byte slices under a text encoding.
//
// Encoding never fails on unrepresentable characters: they are replaced
// with the encoding's substitute ('?' for ASCII, SUB for legacy code pages).
// Decoding replaces invalid input with U+FFFD (UTF-8) or '?' (ASCII).

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNilEncoding is returned when Encode or Decode is called without an encoding.
var ErrNilEncoding = errors.New("parse: nil encoding")

var (
	// UTF8 is UTF-8 without a byte order mark.
	UTF8 encoding.Encoding = unicode.UTF8

	// ASCII is 7-bit US-ASCII. Anything outside it becomes '?'.
	ASCII encoding.Encoding = asciiEncoding{}
)

// DefaultEncoding returns the encoding used by Bytes and Text. Go strings
// are UTF-8, so that is the system encoding.
func DefaultEncoding() encoding.Encoding { return unicode.UTF8 }

// Bytes encodes s with DefaultEncoding.
func Bytes(s string) []byte { return mustEncode(s, DefaultEncoding()) }

// BytesUTF8 encodes s as UTF-8.
func BytesUTF8(s string) []byte { return mustEncode(s, unicode.UTF8) }

// BytesASCII encodes s as ASCII.
func BytesASCII(s string) []byte { return mustEncode(s, asciiEncoding{}) }

// Encode converts s to bytes under enc.
func Encode(s string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		return nil, ErrNilEncoding
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out, nil
}

// Text decodes b with DefaultEncoding.
func Text(b []byte) string { return mustDecode(b, DefaultEncoding()) }

// TextUTF8 decodes b as UTF-8.
func TextUTF8(b []byte) string { return mustDecode(b, unicode.UTF8) }

// TextASCII decodes b as ASCII.
func TextASCII(b []byte) string { return mustDecode(b, asciiEncoding{}) }

// Decode converts b to a string under enc.
func Decode(b []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return "", ErrNilEncoding
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}

// LookupEncoding resolves an encoding by its WHATWG name or label, e.g.
// "utf-8", "windows-1252", "iso-8859-2", "shift_jis". "ascii" and "us-ascii"
// resolve to ASCII rather than the WHATWG windows-1252 alias.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ascii", "us-ascii":
		return ASCII, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("lookup encoding %q: %w", name, err)
	}
	return enc, nil
}

// The built-in encodings never report errors: invalid input is replaced.
func mustEncode(s string, enc encoding.Encoding) []byte {
	out, err := Encode(s, enc)
	if err != nil {
		panic(err)
	}
	return out
}

func mustDecode(b []byte, enc encoding.Encoding) string {
	out, err := Decode(b, enc)
	if err != nil {
		panic(err)
	}
	return out
}

// asciiEncoding implements encoding.Encoding for 7-bit ASCII.
type asciiEncoding struct{}

func (asciiEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: asciiDecoder{}}
}

func (asciiEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: asciiEncoder{}}
}

func (asciiEncoding) String() string { return "US-ASCII" }

type asciiDecoder struct{ transform.NopResetter }

func (asciiDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		b := src[nSrc]
		if b >= utf8.RuneSelf {
			b = '?'
		}
		dst[nDst] = b
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}

type asciiEncoder struct{ transform.NopResetter }

func (asciiEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b, size := src[nSrc], 1
		if b >= utf8.RuneSelf {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			_, size = utf8.DecodeRune(src[nSrc:])
			b = '?'
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc += size
	}
	return nDst, nSrc, nil
}

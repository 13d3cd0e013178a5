package parse

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestBytes_RoundTrip(t *testing.T) {
	str := "My Test string with 5 words."

	if got := Text(Bytes(str)); got != str {
		t.Errorf("default round trip = %q, want %q", got, str)
	}
	if got := TextUTF8(BytesUTF8(str)); got != str {
		t.Errorf("UTF-8 round trip = %q, want %q", got, str)
	}
	if got := TextASCII(BytesASCII(str)); got != str {
		t.Errorf("ASCII round trip = %q, want %q", got, str)
	}

	b, err := Encode(str, ASCII)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(b, ASCII)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != str {
		t.Errorf("Encode/Decode ASCII = %q, want %q", got, str)
	}
}

func TestBytes_NonASCII(t *testing.T) {
	str := "naïve café ✓"

	if got := TextUTF8(BytesUTF8(str)); got != str {
		t.Errorf("UTF-8 round trip = %q, want %q", got, str)
	}

	if got, want := string(BytesASCII(str)), "na?ve caf? ?"; got != want {
		t.Errorf("BytesASCII(%q) = %q, want %q", str, got, want)
	}

	if got := TextASCII([]byte{'o', 'k', 0xE9}); got != "ok?" {
		t.Errorf("TextASCII with high byte = %q, want %q", got, "ok?")
	}

	latin := "naïve café"
	b, err := Encode(latin, charmap.Windows1252)
	if err != nil {
		t.Fatalf("Encode windows-1252: %v", err)
	}
	if len(b) != len([]rune(latin)) {
		t.Errorf("windows-1252 length = %d, want one byte per rune (%d)", len(b), len([]rune(latin)))
	}
	back, err := Decode(b, charmap.Windows1252)
	if err != nil || back != latin {
		t.Errorf("Decode windows-1252 = %q, %v; want %q", back, err, latin)
	}
}

func TestBytes_NilEncoding(t *testing.T) {
	if _, err := Encode("x", nil); !errors.Is(err, ErrNilEncoding) {
		t.Errorf("Encode(nil) error = %v, want ErrNilEncoding", err)
	}
	if _, err := Decode([]byte("x"), nil); !errors.Is(err, ErrNilEncoding) {
		t.Errorf("Decode(nil) error = %v, want ErrNilEncoding", err)
	}
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF8", "windows-1252", "latin1", "ascii", "US-ASCII"} {
		enc, err := LookupEncoding(name)
		if err != nil || enc == nil {
			t.Errorf("LookupEncoding(%q) = %v, %v", name, enc, err)
		}
	}
	if enc, _ := LookupEncoding("ascii"); enc != ASCII {
		t.Errorf("LookupEncoding(\"ascii\") = %v, want ASCII", enc)
	}
	if _, err := LookupEncoding("klingon"); err == nil {
		t.Error("LookupEncoding(\"klingon\") succeeded, want error")
	}
}

func TestBytes_IgnoresReassignedEncodings(t *testing.T) {
	if DefaultEncoding() != unicode.UTF8 {
		t.Fatalf("DefaultEncoding() = %v, want UTF-8", DefaultEncoding())
	}

	savedUTF8, savedASCII := UTF8, ASCII
	UTF8, ASCII = nil, nil
	defer func() { UTF8, ASCII = savedUTF8, savedASCII }()

	const str = "naïve"
	if got := Text(Bytes(str)); got != str {
		t.Errorf("Text(Bytes(%q)) = %q", str, got)
	}
	if got := TextUTF8(BytesUTF8(str)); got != str {
		t.Errorf("TextUTF8(BytesUTF8(%q)) = %q", str, got)
	}
	if got, want := string(BytesASCII(str)), "na?ve"; got != want {
		t.Errorf("BytesASCII(%q) = %q, want %q", str, got, want)
	}
}

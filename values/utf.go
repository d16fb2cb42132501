package values

import (
	"errors"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned by UTF8ToUTF32 when surrogateEscape is
// false and the input contains a byte sequence that isn't valid UTF-8
// (spec.md §4.2).
var ErrInvalidEncoding = errors.New("values: invalid UTF-8 encoding")

// surrogateEscapeBase is added to an invalid byte's value to produce the
// sentinel code point representing it, following the same
// surrogate-escape convention as Python's "surrogateescape" error
// handler (spec.md §4.2: "UTF-8<->UTF-32 conversion uses surrogate-pair
// escaping (0xDC80 + byte)").
const surrogateEscapeBase = 0xDC80

// UTF8ToUTF32 decodes s into UTF-32 code units. With surrogateEscape set,
// any byte that doesn't fit a valid UTF-8 sequence is preserved as the
// code point surrogateEscapeBase+byte so the original bytes can be
// recovered by UTF32ToUTF8; otherwise such a byte is reported as
// ErrInvalidEncoding.
func UTF8ToUTF32(s []byte, surrogateEscape bool) ([]rune, error) {
	out := make([]rune, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRune(s[i:])
		if r == utf8.RuneError && size <= 1 {
			if !surrogateEscape {
				return nil, ErrInvalidEncoding
			}
			out = append(out, rune(surrogateEscapeBase)+rune(s[i]))
			i++
			continue
		}
		out = append(out, r)
		i += size
	}
	return out, nil
}

// UTF32ToUTF8 is UTF8ToUTF32's inverse. A code unit in
// [surrogateEscapeBase, surrogateEscapeBase+0xFF] is written back as the
// single raw byte it escaped, when surrogateEscape is set; otherwise it
// is encoded as ordinary UTF-8 (which, for a genuine surrogate code
// point, produces the UTF-8 replacement-adjacent encoding rather than a
// round trip -- callers that need the round trip must pass the same
// surrogateEscape value used to decode).
func UTF32ToUTF8(runes []rune, surrogateEscape bool) []byte {
	out := make([]byte, 0, len(runes))
	buf := make([]byte, utf8.UTFMax)
	for _, r := range runes {
		if surrogateEscape && r >= surrogateEscapeBase && r <= surrogateEscapeBase+0xFF {
			out = append(out, byte(r-surrogateEscapeBase))
			continue
		}
		n := utf8.EncodeRune(buf, r)
		out = append(out, buf[:n]...)
	}
	return out
}

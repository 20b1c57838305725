package jsast

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// unescape decodes the escape sequences of a string literal body. Malformed
// escapes are kept as the character after the backslash.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}
		i++

		switch c := s[i]; c {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '\n':
			i++
		case '\r':
			i++
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case 'x':
			if r, ok := hexValue(s[i+1:], 2); ok {
				b.WriteRune(r)
				i += 3
			} else {
				b.WriteByte(c)
				i++
			}
		case 'u':
			r, n := unicodeEscape(s[i+1:])
			if n == 0 {
				b.WriteByte(c)
				i++
				continue
			}
			i += 1 + n
			// Surrogate pair written as two \u escapes.
			if utf16.IsSurrogate(r) && strings.HasPrefix(s[i:], `\u`) {
				if lo, m := unicodeEscape(s[i+2:]); m > 0 {
					if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
						r = pair
						i += 2 + m
					}
				}
			}
			b.WriteRune(r)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// Legacy octal: at most three digits and at most \377.
			v, j := 0, i
			for j < len(s) && j-i < 3 && s[j] >= '0' && s[j] <= '7' {
				next := v*8 + int(s[j]-'0')
				if next > 0o377 {
					break
				}
				v = next
				j++
			}
			b.WriteRune(rune(v))
			i = j
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			i += size
			// U+2028 and U+2029 continue the line like a newline does.
			if r != '\u2028' && r != '\u2029' {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// unicodeEscape decodes the part of a \u escape after the "u": either four
// hex digits or a braced code point. It returns the number of bytes used,
// zero when malformed.
func unicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0
		}
		r, ok := hexValue(s[1:end], end-1)
		if !ok || r > utf8.MaxRune {
			return 0, 0
		}
		return r, end + 1
	}
	r, ok := hexValue(s, 4)
	if !ok {
		return 0, 0
	}
	return r, 4
}

func hexValue(s string, digits int) (rune, bool) {
	if len(s) < digits || digits > 8 {
		return 0, false
	}
	v, err := strconv.ParseUint(s[:digits], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

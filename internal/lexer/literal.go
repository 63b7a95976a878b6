package lexer

import "strings"

// decodeString resolves backslash escapes in a string literal body, matching
// Python literal semantics: unknown escapes keep the backslash, and a
// backslash-newline pair disappears. Raw literals pass through unchanged.
func decodeString(body string, raw bool) string {
	if raw {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			b.WriteByte(c)
			i++
			continue
		}
		e := body[i+1]
		switch e {
		case '\n':
			i += 2
		case '\\', '\'', '"':
			b.WriteByte(e)
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 'a':
			b.WriteByte(7)
			i += 2
		case 'b':
			b.WriteByte(8)
			i += 2
		case 'f':
			b.WriteByte(12)
			i += 2
		case 'v':
			b.WriteByte(11)
			i += 2
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v, n := 0, 0
			for n < 3 && i+1+n < len(body) && body[i+1+n] >= '0' && body[i+1+n] <= '7' {
				v = v*8 + int(body[i+1+n]-'0')
				n++
			}
			b.WriteByte(byte(v))
			i += 1 + n
		case 'x':
			if i+3 < len(body) && isHex(body[i+2]) && isHex(body[i+3]) {
				b.WriteByte(byte(hexVal(body[i+2])<<4 | hexVal(body[i+3])))
				i += 4
			} else {
				b.WriteByte('\\')
				i++
			}
		default:
			b.WriteByte('\\')
			i++
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

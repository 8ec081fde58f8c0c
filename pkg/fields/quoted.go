package fields

import "strings"

// quotedStringParser consumes a double-quoted string with backslash escapes.
// The extracted value is the unescaped inner text.
type quotedStringParser struct{}

func newQuotedString(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("quoted-string", params[0])
	}
	return quotedStringParser{}, nil
}

func (quotedStringParser) Parse(line string, off int) (int, any, error) {
	if off >= len(line) || line[off] != '"' {
		return 0, nil, ErrNoMatch
	}
	var buf strings.Builder
	i := off + 1
	for i < len(line) {
		c := line[i]
		switch c {
		case '\\':
			if i+1 >= len(line) {
				return 0, nil, ErrNoMatch
			}
			buf.WriteByte(line[i+1])
			i += 2
		case '"':
			return i + 1 - off, buf.String(), nil
		default:
			buf.WriteByte(c)
			i++
		}
	}
	// No closing quote on this line.
	return 0, nil, ErrNoMatch
}

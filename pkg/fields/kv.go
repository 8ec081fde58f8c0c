package fields

import "fmt"

// nameValueParser consumes a sequence of key=value pairs, producing a nested map.
// The pair separator defaults to a single space and is configurable with sep=<char>.
// Values may be double-quoted to include the separator.
type nameValueParser struct {
	sep byte
}

func newNameValueList(params []string) (Parser, error) {
	p := nameValueParser{sep: ' '}
	for _, param := range params {
		key, value, hasValue := splitParam(param)
		switch key {
		case "sep":
			if !hasValue {
				return nil, fmt.Errorf("%w: name-value-list: sep requires a value", ErrConfig)
			}
			c, err := decodeChar(value)
			if err != nil {
				return nil, errParam("name-value-list", param)
			}
			p.sep = c
		default:
			return nil, errParam("name-value-list", param)
		}
	}
	return p, nil
}

func (p nameValueParser) Parse(line string, off int) (int, any, error) {
	values := map[string]any{}
	i := off
	for {
		keyLen := consumeKey(line, i)
		if keyLen == 0 || i+keyLen >= len(line) || line[i+keyLen] != '=' {
			break
		}
		key := line[i : i+keyLen]
		j := i + keyLen + 1
		var value string
		if j < len(line) && line[j] == '"' {
			n, v, err := quotedStringParser{}.Parse(line, j)
			if err != nil {
				break
			}
			value = v.(string)
			j += n
		} else {
			start := j
			for j < len(line) && line[j] != p.sep {
				j++
			}
			value = line[start:j]
		}
		values[key] = value
		i = j
		// A single separator may follow; the next pair decides whether it is consumed.
		if i < len(line) && line[i] == p.sep && consumePairAhead(line, i+1) {
			i++
			continue
		}
		break
	}
	if len(values) == 0 {
		return 0, nil, ErrNoMatch
	}
	return i - off, values, nil
}

// consumePairAhead reports whether another key=value pair starts at off.
func consumePairAhead(line string, off int) bool {
	keyLen := consumeKey(line, off)
	return keyLen > 0 && off+keyLen < len(line) && line[off+keyLen] == '='
}

// consumeKey returns the length of a key token at off: letters, digits, and [_.-].
func consumeKey(line string, off int) int {
	i := off
	for i < len(line) {
		c := line[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '_' || c == '.' || c == '-' {
			i++
			continue
		}
		break
	}
	return i - off
}

package fields

import (
	"fmt"
	"strconv"
)

// whitespaceParser consumes a run of at least one space or tab.
type whitespaceParser struct{}

func newWhitespace(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("whitespace", params[0])
	}
	return whitespaceParser{}, nil
}

func (whitespaceParser) Parse(line string, off int) (int, any, error) {
	i := off
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i == off {
		return 0, nil, ErrNoMatch
	}
	return i - off, line[off:i], nil
}

// wordParser consumes a run of at least one character, up to the next space or tab.
type wordParser struct{}

func newWord(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("word", params[0])
	}
	return wordParser{}, nil
}

func (wordParser) Parse(line string, off int) (int, any, error) {
	i := off
	for i < len(line) && line[i] != ' ' && line[i] != '\t' {
		i++
	}
	if i == off {
		return 0, nil, ErrNoMatch
	}
	return i - off, line[off:i], nil
}

// charToParser consumes at least one character up to, but not including, a configured terminator.
type charToParser struct {
	term byte
}

func newCharTo(params []string) (Parser, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("%w: char-to: requires exactly one terminator parameter", ErrConfig)
	}
	term, err := decodeChar(params[0])
	if err != nil {
		return nil, errParam("char-to", params[0])
	}
	return charToParser{term: term}, nil
}

// decodeChar accepts a single literal character or a \xNN hex escape.
// The escape form exists because some characters (the placeholder delimiters) cannot appear literally in a sample.
func decodeChar(s string) (byte, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	if len(s) == 4 && s[0] == '\\' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, err
		}
		return byte(n), nil
	}
	return 0, fmt.Errorf("not a single character: %q", s)
}

func (p charToParser) Parse(line string, off int) (int, any, error) {
	i := off
	for i < len(line) && line[i] != p.term {
		i++
	}
	if i == off || i == len(line) {
		// Empty token, or terminator never found.
		return 0, nil, ErrNoMatch
	}
	return i - off, line[off:i], nil
}

// restParser consumes everything to the end of the line, possibly nothing.
type restParser struct{}

func newRest(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("rest", params[0])
	}
	return restParser{}, nil
}

func (restParser) Parse(line string, off int) (int, any, error) {
	return len(line) - off, line[off:], nil
}

// numberParser consumes a run of decimal digits.
type numberParser struct{}

func newNumber(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("number", params[0])
	}
	return numberParser{}, nil
}

func (numberParser) Parse(line string, off int) (int, any, error) {
	i := off
	for i < len(line) && isDigit(line[i]) {
		i++
	}
	if i == off {
		return 0, nil, ErrNoMatch
	}
	text := line[off:i]
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i - off, n, nil
	}
	// Too large for int64, keep the digits as text.
	return i - off, text, nil
}

// floatParser consumes an optionally signed decimal number with an optional fraction.
type floatParser struct{}

func newFloat(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("float", params[0])
	}
	return floatParser{}, nil
}

func (floatParser) Parse(line string, off int) (int, any, error) {
	i := off
	if i < len(line) && line[i] == '-' {
		i++
	}
	start := i
	for i < len(line) && isDigit(line[i]) {
		i++
	}
	if i == start {
		return 0, nil, ErrNoMatch
	}
	if i < len(line) && line[i] == '.' {
		j := i + 1
		for j < len(line) && isDigit(line[j]) {
			j++
		}
		// A trailing '.' without digits is not part of the number.
		if j > i+1 {
			i = j
		}
	}
	f, err := strconv.ParseFloat(line[off:i], 64)
	if err != nil {
		return 0, nil, ErrNoMatch
	}
	return i - off, f, nil
}

// hexnumberParser consumes a 0x-prefixed run of hex digits.
type hexnumberParser struct{}

func newHexnumber(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("hexnumber", params[0])
	}
	return hexnumberParser{}, nil
}

func (hexnumberParser) Parse(line string, off int) (int, any, error) {
	i := off
	if i+2 > len(line) || line[i] != '0' || (line[i+1] != 'x' && line[i+1] != 'X') {
		return 0, nil, ErrNoMatch
	}
	i += 2
	start := i
	for i < len(line) && isHexDigit(line[i]) {
		i++
	}
	if i == start {
		return 0, nil, ErrNoMatch
	}
	return i - off, line[off:i], nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

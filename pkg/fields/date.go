package fields

import (
	"time"
)

// rfc3164Parser consumes a classic syslog timestamp: "Jan  2 15:04:05".
// Field ranges are validated; "Feb 31" or hour 25 are rejected as non-matches.
type rfc3164Parser struct{}

func newDateRFC3164(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("date-rfc3164", params[0])
	}
	return rfc3164Parser{}, nil
}

var monthDays = map[string]int{
	"Jan": 31, "Feb": 29, "Mar": 31, "Apr": 30, "May": 31, "Jun": 30,
	"Jul": 31, "Aug": 31, "Sep": 30, "Oct": 31, "Nov": 30, "Dec": 31,
}

func (rfc3164Parser) Parse(line string, off int) (int, any, error) {
	i := off
	if i+3 > len(line) {
		return 0, nil, ErrNoMatch
	}
	maxDay, ok := monthDays[line[i:i+3]]
	if !ok {
		return 0, nil, ErrNoMatch
	}
	i += 3
	if i >= len(line) || line[i] != ' ' {
		return 0, nil, ErrNoMatch
	}
	i++
	// Day is one or two digits; single digits are space-padded ("Jan  2").
	day := 0
	switch {
	case i+1 < len(line) && line[i] == ' ' && isDigit(line[i+1]):
		day = int(line[i+1] - '0')
		i += 2
	case i+1 < len(line) && isDigit(line[i]) && isDigit(line[i+1]):
		day = int(line[i]-'0')*10 + int(line[i+1]-'0')
		i += 2
	case i < len(line) && isDigit(line[i]):
		day = int(line[i] - '0')
		i++
	default:
		return 0, nil, ErrNoMatch
	}
	if day < 1 || day > maxDay {
		return 0, nil, ErrNoMatch
	}
	if i >= len(line) || line[i] != ' ' {
		return 0, nil, ErrNoMatch
	}
	i++
	n := consumeClock(line, i)
	if n == 0 {
		return 0, nil, ErrNoMatch
	}
	i += n
	return i - off, line[off:i], nil
}

// consumeClock consumes "hh:mm:ss" with range checks, returning the consumed length or 0.
func consumeClock(line string, off int) int {
	if off+8 > len(line) {
		return 0
	}
	if line[off+2] != ':' || line[off+5] != ':' {
		return 0
	}
	hh, ok1 := twoDigits(line, off)
	mm, ok2 := twoDigits(line, off+3)
	ss, ok3 := twoDigits(line, off+6)
	if !ok1 || !ok2 || !ok3 {
		return 0
	}
	if hh > 23 || mm > 59 || ss > 59 {
		return 0
	}
	return 8
}

func twoDigits(line string, off int) (int, bool) {
	if off+2 > len(line) || !isDigit(line[off]) || !isDigit(line[off+1]) {
		return 0, false
	}
	return int(line[off]-'0')*10 + int(line[off+1]-'0'), true
}

// rfc5424Parser consumes an RFC 5424 / RFC 3339 timestamp:
// "2006-01-02T15:04:05", optional fraction, then "Z" or a "+hh:mm" offset.
type rfc5424Parser struct{}

func newDateRFC5424(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("date-rfc5424", params[0])
	}
	return rfc5424Parser{}, nil
}

func (rfc5424Parser) Parse(line string, off int) (int, any, error) {
	i := off
	if i+10 > len(line) || line[i+4] != '-' || line[i+7] != '-' {
		return 0, nil, ErrNoMatch
	}
	for _, p := range []int{i, i + 1, i + 2, i + 3, i + 5, i + 6, i + 8, i + 9} {
		if !isDigit(line[p]) {
			return 0, nil, ErrNoMatch
		}
	}
	i += 10
	if i >= len(line) || (line[i] != 'T' && line[i] != 't') {
		return 0, nil, ErrNoMatch
	}
	i++
	n := consumeClock(line, i)
	if n == 0 {
		return 0, nil, ErrNoMatch
	}
	i += n
	if i < len(line) && line[i] == '.' {
		j := i + 1
		for j < len(line) && isDigit(line[j]) {
			j++
		}
		if j == i+1 {
			return 0, nil, ErrNoMatch
		}
		i = j
	}
	switch {
	case i < len(line) && (line[i] == 'Z' || line[i] == 'z'):
		i++
	case i < len(line) && (line[i] == '+' || line[i] == '-'):
		if i+6 > len(line) || line[i+3] != ':' {
			return 0, nil, ErrNoMatch
		}
		hh, ok1 := twoDigits(line, i+1)
		mm, ok2 := twoDigits(line, i+4)
		if !ok1 || !ok2 || hh > 23 || mm > 59 {
			return 0, nil, ErrNoMatch
		}
		i += 6
	default:
		return 0, nil, ErrNoMatch
	}
	// Calendar validity (month 13, Feb 30) is left to the stdlib.
	text := line[off:i]
	if _, err := time.Parse(time.RFC3339, normalizeRFC3339(text)); err != nil {
		return 0, nil, ErrNoMatch
	}
	return i - off, text, nil
}

// normalizeRFC3339 uppercases the 'T'/'Z' markers so lowercase variants validate.
func normalizeRFC3339(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == 't' || c == 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

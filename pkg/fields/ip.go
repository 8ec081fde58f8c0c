package fields

import (
	"net"
	"strconv"
	"strings"
)

// ipv4Parser consumes a dotted-quad IPv4 address, rejecting octets out of range.
type ipv4Parser struct{}

func newIPv4(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("ipv4", params[0])
	}
	return ipv4Parser{}, nil
}

func (ipv4Parser) Parse(line string, off int) (int, any, error) {
	n := consumeIPv4(line, off)
	if n == 0 {
		return 0, nil, ErrNoMatch
	}
	return n, line[off : off+n], nil
}

// consumeIPv4 returns the length of a valid dotted quad at off, or 0.
func consumeIPv4(line string, off int) int {
	i := off
	for octet := 0; octet < 4; octet++ {
		if octet > 0 {
			if i >= len(line) || line[i] != '.' {
				return 0
			}
			i++
		}
		start := i
		for i < len(line) && isDigit(line[i]) && i-start < 3 {
			i++
		}
		if i == start {
			return 0
		}
		v, err := strconv.Atoi(line[start:i])
		if err != nil || v > 255 {
			return 0
		}
	}
	return i - off
}

// ipv6Parser consumes the longest syntactically valid IPv6 address at the current offset.
type ipv6Parser struct{}

func newIPv6(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("ipv6", params[0])
	}
	return ipv6Parser{}, nil
}

func (ipv6Parser) Parse(line string, off int) (int, any, error) {
	// Candidate run of address characters, then shrink from the right until it validates.
	// Shrinking handles a trailing '.' or ':' that belongs to surrounding text.
	end := off
	for end < len(line) && isIPv6Char(line[end]) {
		end++
	}
	for end > off {
		candidate := line[off:end]
		// The ':' requirement distinguishes an IPv6 address from a bare dotted quad,
		// while still admitting v4-mapped forms like ::ffff:10.0.0.1.
		if strings.Contains(candidate, ":") && net.ParseIP(candidate) != nil {
			return end - off, candidate, nil
		}
		end--
	}
	return 0, nil, ErrNoMatch
}

func isIPv6Char(c byte) bool {
	return isHexDigit(c) || c == ':' || c == '.'
}

package fields

// ciscoInterfaceParser consumes a Cisco ASA interface spec in the forms
//
//	outside:10.0.0.1/443
//	outside:10.0.0.1/443 (10.0.0.2/1025)
//	outside:10.0.0.1/443 (10.0.0.2/1025) (admin)
//
// The interface prefix is optional. The extracted value is a map with
// "interface", "ip", "port", and optionally "ip2", "port2", and "user".
type ciscoInterfaceParser struct{}

func newCiscoInterfaceSpec(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("cisco-interface-spec", params[0])
	}
	return ciscoInterfaceParser{}, nil
}

func (ciscoInterfaceParser) Parse(line string, off int) (int, any, error) {
	value := map[string]any{}
	i := off
	if n, name := consumeInterfaceName(line, i); n > 0 {
		value["interface"] = name
		i += n
	}
	n, ip, port := consumeAddrPort(line, i)
	if n == 0 {
		return 0, nil, ErrNoMatch
	}
	value["ip"] = ip
	value["port"] = port
	i += n
	// Optional mapped address.
	if j, ok := expect(line, i, " ("); ok {
		n, ip2, port2 := consumeAddrPort(line, j)
		if n > 0 && j+n < len(line) && line[j+n] == ')' {
			value["ip2"] = ip2
			value["port2"] = port2
			i = j + n + 1
		}
	}
	// Optional user.
	if j, ok := expect(line, i, " ("); ok {
		start := j
		for j < len(line) && line[j] != ')' && line[j] != ' ' {
			j++
		}
		if j > start && j < len(line) && line[j] == ')' {
			value["user"] = line[start:j]
			i = j + 1
		}
	}
	return i - off, value, nil
}

// consumeInterfaceName consumes "name:" where name starts with a letter.
func consumeInterfaceName(line string, off int) (int, string) {
	i := off
	for i < len(line) {
		c := line[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || (i > off && (isDigit(c) || c == '-' || c == '_')) {
			i++
			continue
		}
		break
	}
	if i == off || i >= len(line) || line[i] != ':' {
		return 0, ""
	}
	return i + 1 - off, line[off:i]
}

// consumeAddrPort consumes "ipv4/port".
func consumeAddrPort(line string, off int) (int, string, int64) {
	n := consumeIPv4(line, off)
	if n == 0 {
		return 0, "", 0
	}
	i := off + n
	if i >= len(line) || line[i] != '/' {
		return 0, "", 0
	}
	i++
	start := i
	var port int64
	for i < len(line) && isDigit(line[i]) && i-start < 5 {
		port = port*10 + int64(line[i]-'0')
		i++
	}
	if i == start || port > 65535 {
		return 0, "", 0
	}
	return i - off, line[off : off+n], port
}

// expect reports whether s occurs at off, returning the offset just past it.
func expect(line string, off int, s string) (int, bool) {
	if off+len(s) <= len(line) && line[off:off+len(s)] == s {
		return off + len(s), true
	}
	return off, false
}

package fields

import "strings"

const cefPrefix = "CEF:0|"

// cefParser consumes an ArcSight Common Event Format record: the "CEF:0" version
// marker, six pipe-delimited header fields, then key=value extensions to end of line.
// Pipes and backslashes inside header fields are escaped with a backslash.
type cefParser struct{}

func newCEF(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("cef", params[0])
	}
	return cefParser{}, nil
}

var cefHeaderFields = []string{
	"DeviceVendor",
	"DeviceProduct",
	"DeviceVersion",
	"SignatureID",
	"Name",
	"Severity",
}

func (cefParser) Parse(line string, off int) (int, any, error) {
	if !strings.HasPrefix(line[off:], cefPrefix) {
		return 0, nil, ErrNoMatch
	}
	i := off + len(cefPrefix)
	value := map[string]any{"CEFVersion": int64(0)}
	for _, name := range cefHeaderFields {
		field, n, ok := cefHeaderField(line, i)
		if !ok {
			return 0, nil, ErrNoMatch
		}
		value[name] = field
		i += n
	}
	ext, n, ok := cefExtensions(line, i)
	if !ok {
		return 0, nil, ErrNoMatch
	}
	if len(ext) > 0 {
		value["Extensions"] = ext
	}
	i += n
	return i - off, value, nil
}

// cefHeaderField consumes one header field plus its trailing pipe.
func cefHeaderField(line string, off int) (string, int, bool) {
	var buf strings.Builder
	i := off
	for i < len(line) {
		switch line[i] {
		case '\\':
			if i+1 >= len(line) {
				return "", 0, false
			}
			buf.WriteByte(line[i+1])
			i += 2
		case '|':
			return buf.String(), i + 1 - off, true
		default:
			buf.WriteByte(line[i])
			i++
		}
	}
	return "", 0, false
}

// cefExtensions consumes the key=value extension list, which runs to end of line.
// A value extends until the '=' of the next key; values may contain spaces.
func cefExtensions(line string, off int) (map[string]any, int, bool) {
	ext := map[string]any{}
	i := off
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		keyLen := consumeKey(line, i)
		if keyLen == 0 || i+keyLen >= len(line) || line[i+keyLen] != '=' {
			return nil, 0, false
		}
		key := line[i : i+keyLen]
		j := i + keyLen + 1
		end := j
		// Scan for the start of the next extension key.
		for k := j; k < len(line); k++ {
			if line[k] != ' ' {
				end = k + 1
				continue
			}
			if consumePairAhead(line, k+1) {
				break
			}
		}
		ext[key] = line[j:end]
		i = end
	}
	return ext, i - off, true
}

package fields

import (
	"encoding/json"
	"strings"
)

// jsonParser consumes a balanced JSON value starting at '{' or '['.
// The one recognized option, skipempty, recursively prunes empty strings,
// arrays, and objects from the extracted value after a successful parse.
type jsonParser struct {
	skipEmpty bool
}

func newJSON(params []string) (Parser, error) {
	p := jsonParser{}
	for _, param := range params {
		switch param {
		case "skipempty":
			p.skipEmpty = true
		default:
			return nil, errParam("json", param)
		}
	}
	return p, nil
}

func (p jsonParser) Parse(line string, off int) (int, any, error) {
	if off >= len(line) || (line[off] != '{' && line[off] != '[') {
		return 0, nil, ErrNoMatch
	}
	dec := json.NewDecoder(strings.NewReader(line[off:]))
	var value any
	if err := dec.Decode(&value); err != nil {
		// Unbalanced or invalid document, not this type.
		return 0, nil, ErrNoMatch
	}
	consumed := int(dec.InputOffset())
	if p.skipEmpty {
		pruned, empty := pruneEmpty(value)
		if empty {
			// A wholly-empty value is treated as if this field type did not apply,
			// so the matcher backtracks instead of recording nothing.
			return 0, nil, ErrNoMatch
		}
		value = pruned
	}
	return consumed, value, nil
}

// pruneEmpty returns a copy of v with empty strings, arrays, and objects removed, and
// reports whether v itself is empty after pruning. Scalars other than the empty
// string (numbers, booleans, null) are never empty.
func pruneEmpty(v any) (any, bool) {
	switch v := v.(type) {
	case string:
		return v, v == ""
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			pruned, empty := pruneEmpty(item)
			if empty {
				continue
			}
			out = append(out, pruned)
		}
		return out, len(out) == 0
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			pruned, empty := pruneEmpty(item)
			if empty {
				continue
			}
			out[key] = pruned
		}
		return out, len(out) == 0
	default:
		return v, false
	}
}

const ceeCookie = "@cee:"

// ceeParser consumes a CEE-enhanced syslog payload: the "@cee:" cookie,
// optional whitespace, then a JSON object.
type ceeParser struct{}

func newCEESyslog(params []string) (Parser, error) {
	if len(params) > 0 {
		return nil, errParam("cee-syslog", params[0])
	}
	return ceeParser{}, nil
}

func (ceeParser) Parse(line string, off int) (int, any, error) {
	if !strings.HasPrefix(line[off:], ceeCookie) {
		return 0, nil, ErrNoMatch
	}
	i := off + len(ceeCookie)
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || line[i] != '{' {
		return 0, nil, ErrNoMatch
	}
	n, value, err := jsonParser{}.Parse(line, i)
	if err != nil {
		return 0, nil, err
	}
	return i + n - off, value, nil
}

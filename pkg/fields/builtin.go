package fields

// Edge priorities, higher first. More specific grammars outrank generic ones so
// the matcher tries the least backtracking-prone alternative at each node.
const (
	PriorityDateRFC5424 = 192
	PriorityDateRFC3164 = 190
	PriorityIP          = 180
	PriorityCEF         = 170
	PriorityCEE         = 168
	PriorityCiscoIface  = 160
	PriorityJSON        = 150
	PriorityQuoted      = 140
	PriorityNameValue   = 130
	PriorityHexnumber   = 124
	PriorityFloat       = 122
	PriorityNumber      = 120
	PriorityWord        = 100
	PriorityCharTo      = 90
	PriorityWhitespace  = 80
	PriorityRegex       = 40
	PriorityGrok        = 30
	PriorityRest        = 10
)

// DefaultRegistry returns a Registry populated with all built-in field types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Type{Name: "whitespace", Priority: PriorityWhitespace, New: newWhitespace, Doc: `whitespace

Consumes a run of at least one space or tab.`})
	r.Register(Type{Name: "word", Priority: PriorityWord, New: newWord, Doc: `word

Consumes a run of at least one character, up to the next space or tab.`})
	r.Register(Type{Name: "char-to", Priority: PriorityCharTo, New: newCharTo, Doc: `char-to:CHAR

Consumes at least one character up to, but not including, CHAR.
CHAR is a single literal character or a \xNN hex escape.
Fails if CHAR does not occur in the remainder of the line.`})
	r.Register(Type{Name: "rest", Priority: PriorityRest, New: newRest, Doc: `rest

Consumes the remainder of the line, possibly nothing.
Lowest priority; every other alternative is tried first.`})
	r.Register(Type{Name: "number", Priority: PriorityNumber, New: newNumber, Doc: `number

Consumes a run of decimal digits. The value is an integer when it fits in 64 bits.`})
	r.Register(Type{Name: "float", Priority: PriorityFloat, New: newFloat, Doc: `float

Consumes an optionally signed decimal number with an optional fraction.`})
	r.Register(Type{Name: "hexnumber", Priority: PriorityHexnumber, New: newHexnumber, Doc: `hexnumber

Consumes a 0x-prefixed run of hex digits.`})
	r.Register(Type{Name: "ipv4", Priority: PriorityIP, New: newIPv4, Doc: `ipv4

Consumes a dotted-quad IPv4 address. Octets above 255 are rejected.`})
	r.Register(Type{Name: "ipv6", Priority: PriorityIP, New: newIPv6, Doc: `ipv6

Consumes the longest syntactically valid IPv6 address, including v4-mapped forms.`})
	r.Register(Type{Name: "date-rfc3164", Priority: PriorityDateRFC3164, New: newDateRFC3164, Doc: `date-rfc3164

Consumes a classic syslog timestamp like "Jan  2 15:04:05", validating field ranges.`})
	r.Register(Type{Name: "date-rfc5424", Priority: PriorityDateRFC5424, New: newDateRFC5424, Doc: `date-rfc5424

Consumes an RFC 5424 timestamp like "2023-01-02T15:04:05.123Z", validating field ranges.`})
	r.Register(Type{Name: "quoted-string", Priority: PriorityQuoted, New: newQuotedString, Doc: `quoted-string

Consumes a double-quoted string with backslash escapes. The value is the unescaped inner text.`})
	r.Register(Type{Name: "name-value-list", Priority: PriorityNameValue, New: newNameValueList, Doc: `name-value-list[:sep=CHAR]

Consumes a sequence of key=value pairs into a map.
The pair separator defaults to a space; values may be double-quoted.`})
	r.Register(Type{Name: "json", Priority: PriorityJSON, New: newJSON, Doc: `json[:skipempty]

Consumes a balanced JSON value starting at '{' or '['.
With skipempty, empty strings, arrays, and objects are pruned recursively from the value;
if everything is pruned, the field does not match.`})
	r.Register(Type{Name: "cee-syslog", Priority: PriorityCEE, New: newCEESyslog, Doc: `cee-syslog

Consumes an "@cee:" cookie followed by a JSON object.`})
	r.Register(Type{Name: "cef", Priority: PriorityCEF, New: newCEF, Doc: `cef

Consumes an ArcSight CEF record: "CEF:0", six pipe-delimited header fields,
then key=value extensions to end of line.`})
	r.Register(Type{Name: "cisco-interface-spec", Priority: PriorityCiscoIface, New: newCiscoInterfaceSpec, Doc: `cisco-interface-spec

Consumes a Cisco ASA interface spec like "outside:10.0.0.1/443 (10.0.0.2/1025) (admin)".`})
	r.Register(Type{Name: "regex", Priority: PriorityRegex, New: newRegex, Doc: `regex:EXPRESSION

Consumes the span matched by EXPRESSION, anchored at the current offset.`})
	r.Register(Type{Name: "grok", Priority: PriorityGrok, New: newGrok, Doc: `grok:PATTERN

Matches the remainder of the line against a grok PATTERN, extracting named captures
into a map. Always consumes to end of line. Percent signs inside a sample placeholder
are written as %%, so a pattern reference looks like "%%{COMBINEDAPACHELOG}".`})
	return r
}

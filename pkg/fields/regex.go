package fields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/trivago/grok"
)

// regexParser delegates to the regexp engine. The construction parameters,
// rejoined on ':', form the expression; it is anchored at the current offset
// and consumes the matched span.
type regexParser struct {
	re *regexp.Regexp
}

func newRegex(params []string) (Parser, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: regex: requires an expression parameter", ErrConfig)
	}
	// The expression may itself contain ':', so undo the parameter split.
	expr := strings.Join(params, ":")
	re, err := regexp.Compile("^(?:" + expr + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: regex: %v", ErrConfig, err)
	}
	return &regexParser{re: re}, nil
}

func (p *regexParser) Parse(line string, off int) (int, any, error) {
	loc := p.re.FindStringIndex(line[off:])
	if loc == nil || loc[1] == 0 {
		return 0, nil, ErrNoMatch
	}
	return loc[1], line[off : off+loc[1]], nil
}

// grokParser matches the remainder of the line against a grok pattern,
// extracting named captures into a map. Grok exposes no match-span API,
// so this type always consumes to end of line.
type grokParser struct {
	compiled *grok.CompiledGrok
}

func newGrok(params []string) (Parser, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: grok: requires a pattern parameter", ErrConfig)
	}
	pattern := strings.Join(params, ":")
	g, err := grok.New(grok.Config{NamedCapturesOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: grok: %v", ErrConfig, err)
	}
	compiled, err := g.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("%w: grok: %v", ErrConfig, err)
	}
	return &grokParser{compiled: compiled}, nil
}

func (p *grokParser) Parse(line string, off int) (int, any, error) {
	rest := line[off:]
	if !p.compiled.MatchString(rest) {
		return 0, nil, ErrNoMatch
	}
	captures := map[string]any{}
	for key, v := range p.compiled.ParseString(rest) {
		captures[key] = v
	}
	return len(rest), captures, nil
}

package pdag

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lognorm/lognorm/pkg/fields"
)

// piece is one tokenized segment of a sample: a literal run or a field placeholder.
type piece struct {
	lit string
	// field placeholder parts; typ is empty for literal pieces.
	name   string
	typ    string
	params []string
	// pos is the byte offset of the piece in the sample, for error reporting.
	pos int
}

// tokenize splits a sample into alternating literal runs and placeholders.
// Placeholders have the form %name:type:params...% with '-' as the unnamed marker.
// A literal percent sign is written %%, both inside and outside placeholders.
func tokenize(sample string) ([]piece, error) {
	var (
		pieces []piece
		lit    strings.Builder
		start  int
	)
	flushLit := func(end int) {
		if lit.Len() > 0 {
			pieces = append(pieces, piece{lit: lit.String(), pos: start})
			lit.Reset()
		}
		start = end
	}
	i := 0
	for i < len(sample) {
		c := sample[i]
		if c != '%' {
			lit.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(sample) && sample[i+1] == '%' {
			lit.WriteByte('%')
			i += 2
			continue
		}
		flushLit(i)
		body, end, err := readPlaceholder(sample, i)
		if err != nil {
			return nil, err
		}
		p, err := splitPlaceholder(body, i)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, p)
		i = end
		start = i
	}
	flushLit(len(sample))
	return pieces, nil
}

// readPlaceholder consumes the placeholder body between the '%' at off and its
// closing '%', decoding %% escapes. It returns the body and the offset past the close.
func readPlaceholder(sample string, off int) (string, int, error) {
	var body strings.Builder
	i := off + 1
	for i < len(sample) {
		c := sample[i]
		if c != '%' {
			body.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(sample) && sample[i+1] == '%' {
			body.WriteByte('%')
			i += 2
			continue
		}
		return body.String(), i + 1, nil
	}
	return "", 0, fmt.Errorf("%w: unterminated placeholder at position %d", ErrBadRule, off)
}

func splitPlaceholder(body string, pos int) (piece, error) {
	parts := strings.Split(body, ":")
	if len(parts) < 2 || parts[1] == "" {
		return piece{}, fmt.Errorf("%w: placeholder %q at position %d: want %%name:type[:params]%%", ErrBadRule, body, pos)
	}
	name := parts[0]
	if name == "-" {
		name = ""
	}
	return piece{name: name, typ: parts[1], params: parts[2:], pos: pos}, nil
}

// edgeKey identifies equivalent parser edges so identical placeholders after a
// shared prefix reuse one edge instead of forking the graph.
func edgeKey(p piece) string {
	return p.typ + "\x00" + p.name + "\x00" + strings.Join(p.params, ":")
}

// insertion records graph additions from one Compile call so a terminal
// conflict can be rolled back without corrupting the graph.
type insertion struct {
	edges []struct {
		from *node
		e    *edge
	}
	lits []struct {
		from *node
		c    byte
	}
	nodes int
}

func (g *Graph) rollback(txn *insertion) {
	for _, a := range txn.edges {
		a.from.removeEdge(a.e)
		if c, ok := a.e.parser.(fields.Closer); ok {
			_ = c.Close()
		}
	}
	for _, a := range txn.lits {
		delete(a.from.lits, a.c)
	}
	g.nodes -= txn.nodes
	g.edges -= len(txn.edges) + len(txn.lits)
}

// Compile tokenizes one sample and inserts it into the graph as a path from the
// root, tagging the final node with the rule's tags. Either the sample is fully
// inserted or the graph is left exactly as it was.
func (g *Graph) Compile(tags []string, sample string) error {
	pieces, err := tokenize(sample)
	if err != nil {
		return err
	}
	if len(pieces) == 0 {
		return fmt.Errorf("%w: empty sample", ErrBadRule)
	}
	// Construct every field parser before touching the graph, so a bad
	// placeholder can never leave a half-inserted sample behind.
	parsers := make(map[int]fields.Parser)
	types := make(map[int]fields.Type)
	for i, p := range pieces {
		if p.typ == "" {
			continue
		}
		parser, t, err := g.reg.New(p.typ, p.params)
		if err != nil {
			for _, constructed := range parsers {
				if c, ok := constructed.(fields.Closer); ok {
					_ = c.Close()
				}
			}
			return fmt.Errorf("%w: field %q at position %d: %v", ErrBadRule, p.typ, p.pos, err)
		}
		parsers[i] = parser
		types[i] = t
	}

	var txn insertion
	cur := g.root
	for i, p := range pieces {
		if p.typ == "" {
			for j := 0; j < len(p.lit); j++ {
				c := p.lit[j]
				child, ok := cur.lits[c]
				if !ok {
					child = g.newNode()
					cur.lits[c] = child
					g.edges++
					txn.nodes++
					txn.lits = append(txn.lits, struct {
						from *node
						c    byte
					}{cur, c})
				}
				cur = child
			}
			continue
		}
		key := edgeKey(p)
		var reused *edge
		for _, e := range cur.edges {
			if e.key == key {
				reused = e
				break
			}
		}
		if reused != nil {
			// The pre-constructed instance is redundant.
			if c, ok := parsers[i].(fields.Closer); ok {
				_ = c.Close()
			}
			cur = reused.to
			continue
		}
		g.seq++
		e := &edge{
			typeName: p.typ,
			name:     p.name,
			key:      key,
			parser:   parsers[i],
			priority: types[i].Priority,
			seq:      g.seq,
			to:       g.newNode(),
		}
		cur.insertEdge(e)
		g.edges++
		txn.nodes++
		txn.edges = append(txn.edges, struct {
			from *node
			e    *edge
		}{cur, e})
		cur = e.to
	}
	if cur.terminal {
		g.rollback(&txn)
		return fmt.Errorf("%w: %q collides with existing rule %q", ErrDuplicateRule, strings.Join(tags, ","), strings.Join(cur.tags, ","))
	}
	cur.terminal = true
	cur.tags = tags
	g.rules++
	g.log.Debug("Compiled sample", "tags", strings.Join(tags, ","), "nodes", g.nodes, "edges", g.edges)
	return nil
}

// LoadRulebase reads a rulebase: '#' comments and blank lines are skipped, a
// "version=" header is tolerated, and each "rule=tag1,tag2:sample" line is
// compiled. Bad rules are reported with their line number; loading continues
// past them so every problem surfaces in one pass.
func (g *Graph) LoadRulebase(r io.Reader) error {
	var (
		scanner = bufio.NewScanner(r)
		lineNo  int
		bad     int
		first   error
	)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			continue
		case strings.HasPrefix(trimmed, "version="):
			continue
		case strings.HasPrefix(trimmed, "rule="):
			body := strings.TrimPrefix(trimmed, "rule=")
			tagPart, sample, found := strings.Cut(body, ":")
			if !found {
				err := fmt.Errorf("%w: line %d: want rule=tags:sample", ErrBadRule, lineNo)
				g.log.Error("Skipping bad rule", "line", lineNo, "error", err)
				bad++
				if first == nil {
					first = err
				}
				continue
			}
			var tags []string
			if tagPart != "" {
				tags = strings.Split(tagPart, ",")
			}
			if err := g.Compile(tags, sample); err != nil {
				g.log.Error("Skipping bad rule", "line", lineNo, "error", err)
				bad++
				if first == nil {
					first = fmt.Errorf("line %d: %w", lineNo, err)
				}
			}
		default:
			err := fmt.Errorf("%w: line %d: unrecognized directive", ErrBadRule, lineNo)
			g.log.Error("Skipping unrecognized line", "line", lineNo, "error", err)
			bad++
			if first == nil {
				first = err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if bad > 0 {
		return fmt.Errorf("%d bad rulebase line(s), first: %w", bad, first)
	}
	return nil
}

// LoadRulebaseFile loads a rulebase from a file.
func (g *Graph) LoadRulebaseFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return g.LoadRulebase(f)
}

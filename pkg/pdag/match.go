package pdag

import (
	"errors"
	"fmt"

	"github.com/lognorm/lognorm/pkg/fields"
	"github.com/lognorm/lognorm/pkg/record"
)

// capture is one named value discovered along the current path.
type capture struct {
	name  string
	value any
}

// frame is a choice point in the backtracking walk.
type frame struct {
	node *node
	off  int
	// state is -1 before the literal transition is tried, then the index of the
	// next parser edge to try.
	state int
	// caps is the capture stack depth on entry; restored before each alternative
	// so abandoned branches leave nothing behind.
	caps int
}

// Match walks line through the graph and returns the structured record of the
// first sample that consumes the entire line.
//
// Alternatives at each node are tried in a fixed order: the exact literal
// transition first, then parser edges by descending priority and declaration
// order. The first fully-consuming terminal wins; there is no scoring across
// candidates, so results are deterministic for a fixed graph and line.
//
// Match returns ErrNoMatch when every path is exhausted. A fatal field-parser
// error aborts the walk and is returned as-is, distinct from ErrNoMatch.
// Match is a pure function of its inputs and is safe for concurrent use.
func (g *Graph) Match(line string) (record.Record, error) {
	var (
		caps  []capture
		stack []frame
	)
	push := func(n *node, off int) {
		stack = append(stack, frame{node: n, off: off, state: -1, caps: len(caps)})
	}
	push(g.root, 0)
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.state == -1 {
			if f.node.terminal && f.off == len(line) {
				return buildRecord(caps, f.node.tags), nil
			}
			f.state = 0
			if f.off < len(line) {
				if child, ok := f.node.lits[line[f.off]]; ok {
					push(child, f.off+1)
					continue
				}
			}
		}
		// Discard captures from a previously tried alternative of this frame.
		caps = caps[:f.caps]
		advanced := false
		for f.state < len(f.node.edges) {
			e := f.node.edges[f.state]
			f.state++
			consumed, value, err := e.parser.Parse(line, f.off)
			if err != nil {
				if errors.Is(err, fields.ErrNoMatch) {
					continue
				}
				return nil, fmt.Errorf("field %q (%s) at offset %d: %w", e.name, e.typeName, f.off, err)
			}
			if e.name != "" {
				caps = append(caps, capture{name: e.name, value: value})
			}
			push(e.to, f.off+consumed)
			advanced = true
			break
		}
		if advanced {
			continue
		}
		stack = stack[:len(stack)-1]
	}
	return nil, ErrNoMatch
}

// buildRecord assembles captures in path order into the final record.
func buildRecord(caps []capture, tags []string) record.Record {
	rec := record.Record{}
	for _, c := range caps {
		rec[c.name] = c.value
	}
	if len(tags) > 0 {
		rec[record.TagsField] = tags
	}
	return rec
}

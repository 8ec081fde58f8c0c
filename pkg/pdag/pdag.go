// Package pdag compiles sample rules into a prefix-sharing directed acyclic graph
// and matches input lines against it.
//
// A sample is a literal line interleaved with field placeholders like
// %name:type:params%. Compiling inserts each sample as a path from the root;
// common literal prefixes share nodes. Matching walks a line through the graph
// with backtracking, calling field parsers on parser edges, and succeeds at the
// first terminal node that consumes the entire line.
//
// A Graph is immutable once compiled: any number of goroutines may call Match
// concurrently. Swapping in a new rulebase means compiling a new Graph and
// replacing the reference, never mutating one in use.
package pdag

import (
	"errors"

	"github.com/hashicorp/go-hclog"
	"github.com/lognorm/lognorm/pkg/fields"
)

var (
	// ErrNoMatch is returned by Match when no path through the graph consumes the full line.
	// It is a defined outcome, not a fault.
	ErrNoMatch = errors.New("no sample matches the line")
	// ErrBadRule is returned by Compile for malformed placeholder syntax, unknown
	// field types, and field construction failures.
	ErrBadRule = errors.New("bad rule")
	// ErrDuplicateRule is returned by Compile when two samples terminate at the same node.
	ErrDuplicateRule = errors.New("duplicate rule")
)

// edge is a parser transition out of a node. Immutable after compilation;
// the parser instance configuration is owned by the edge and released by Graph.Close.
type edge struct {
	typeName string
	// name is the output field name, or "" for an unnamed field.
	name string
	// key identifies equivalent edges for reuse during compilation.
	key      string
	parser   fields.Parser
	priority int
	// seq is the edge's declaration order across the whole graph, breaking priority ties.
	seq int
	to  *node
}

// node is a matching state.
type node struct {
	// lits maps the next literal character to its child node.
	lits map[byte]*node
	// edges holds parser transitions, ordered by descending priority then declaration order.
	edges []*edge
	// terminal marks the end of a fully matched sample, carrying its rule tags.
	terminal bool
	tags     []string
}

// insertEdge keeps edges ordered by descending priority, then declaration order.
func (n *node) insertEdge(e *edge) {
	at := len(n.edges)
	for i, existing := range n.edges {
		if e.priority > existing.priority {
			at = i
			break
		}
	}
	n.edges = append(n.edges, nil)
	copy(n.edges[at+1:], n.edges[at:])
	n.edges[at] = e
}

// removeEdge detaches an edge added during a failed insertion.
func (n *node) removeEdge(e *edge) {
	for i, existing := range n.edges {
		if existing == e {
			n.edges = append(n.edges[:i], n.edges[i+1:]...)
			return
		}
	}
}

// Graph is a compiled rulebase.
type Graph struct {
	log   hclog.Logger
	reg   *fields.Registry
	root  *node
	nodes int
	edges int
	rules int
	seq   int
}

// New returns an empty Graph bound to a field-type registry.
func New(log hclog.Logger, reg *fields.Registry) *Graph {
	return &Graph{
		log:   log.Named("pdag"),
		reg:   reg,
		root:  &node{lits: map[byte]*node{}},
		nodes: 1,
	}
}

func (g *Graph) newNode() *node {
	g.nodes++
	return &node{lits: map[byte]*node{}}
}

// NodeCount returns the number of nodes in the graph, including the root.
func (g *Graph) NodeCount() int {
	return g.nodes
}

// EdgeCount returns the number of transitions in the graph, literal and parser alike.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// RuleCount returns the number of samples compiled into the graph.
func (g *Graph) RuleCount() int {
	return g.rules
}

// Close releases resources held by field-parser instances.
// The Graph must not be used for matching afterwards.
func (g *Graph) Close() error {
	var rerr error
	seen := map[*node]bool{}
	var walk func(*node)
	walk = func(n *node) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, e := range n.edges {
			if c, ok := e.parser.(fields.Closer); ok {
				if err := c.Close(); err != nil && rerr == nil {
					rerr = err
				}
			}
			walk(e.to)
		}
		for _, child := range n.lits {
			walk(child)
		}
	}
	walk(g.root)
	return rerr
}

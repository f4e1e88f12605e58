package dag

import (
	"errors"
	"slices"
)

// ErrUnknownNode is returned by [Graph.Link] when an endpoint was never added.
var ErrUnknownNode = errors.New("unknown node")

// Kind says what a node stands for.
type Kind string

const (
	KindRoot    Kind = "root"
	KindPackage Kind = "package"
	KindModel   Kind = "model"
	KindDataset Kind = "dataset"
)

// Node is one package, model or dataset.
type Node struct {
	ID   string
	Kind Kind
	// Source names where the node was first seen: a manifest type such as
	// "poetry.lock", or "lineage" for card front matter.
	Source string
}

// Graph is a directed "depends on" / "derived from" graph.
//
// Lock files occasionally declare mutually dependent packages, so cycles
// are allowed; the analysis methods ignore back edges. A Graph is not safe
// for concurrent mutation but may be read from many goroutines once built.
type Graph struct {
	nodes    map[string]*Node
	children map[string][]string
	edges    int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
	}
}

// Add returns the node for id, creating it with kind and source when it is
// new. An existing node keeps its first kind and source.
func (g *Graph) Add(id string, kind Kind, source string) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id, Kind: kind, Source: source}
	g.nodes[id] = n
	return n
}

// Link adds the edge from -> to. Duplicate edges and self loops are
// dropped.
func (g *Graph) Link(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return ErrUnknownNode
	}
	if _, ok := g.nodes[to]; !ok {
		return ErrUnknownNode
	}
	if from == to || slices.Contains(g.children[from], to) {
		return nil
	}
	g.children[from] = append(g.children[from], to)
	g.edges++
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Children returns the IDs id points to, in insertion order.
func (g *Graph) Children(id string) []string { return slices.Clone(g.children[id]) }

// OutDegree returns the number of edges leaving id.
func (g *Graph) OutDegree(id string) int { return len(g.children[id]) }

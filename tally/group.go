// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tally

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/biogo/biogo/alphabet"
)

// Group assigns candidate group indexes to rows. Rows are in the
// same group when they are connected by final sequences sharing a
// k-mer Jaccard similarity of at least thresh. Groups are numbered
// from 1 in order of their first row. The number of groups is
// returned.
func Group(rows []Row, k int, thresh float64) int {
	if len(rows) == 0 {
		return 0
	}
	sets := make([]map[string]bool, len(rows))
	for i := range rows {
		sets[i] = kmers(rows[i].Seq, k)
	}

	g := thresholdGraph{WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(1, 0), thresh: thresh}
	for i := range rows {
		g.AddNode(simple.Node(i))
	}
	// The candidate sets are small, so we compare
	// all pairs rather than indexing k-mers.
	for i := range rows[:len(rows)-1] {
		for j := i + 1; j < len(rows); j++ {
			w := jaccard(sets[i], sets[j])
			if w == 0 {
				continue
			}
			g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(i), T: simple.Node(j), W: w})
		}
	}

	cc := topo.ConnectedComponents(g)
	first := make([]int64, len(cc))
	for i, c := range cc {
		first[i] = c[0].ID()
		for _, n := range c[1:] {
			if n.ID() < first[i] {
				first[i] = n.ID()
			}
		}
	}
	sort.Sort(byFirst{cc, first})
	for i, c := range cc {
		for _, n := range c {
			rows[n.ID()].Group = i + 1
		}
	}
	return len(cc)
}

type byFirst struct {
	cc    [][]graph.Node
	first []int64
}

func (b byFirst) Len() int           { return len(b.cc) }
func (b byFirst) Less(i, j int) bool { return b.first[i] < b.first[j] }
func (b byFirst) Swap(i, j int) {
	b.cc[i], b.cc[j] = b.cc[j], b.cc[i]
	b.first[i], b.first[j] = b.first[j], b.first[i]
}

// kmers returns the set of case-folded k-mers in s.
func kmers(s alphabet.Letters, k int) map[string]bool {
	set := make(map[string]bool)
	if k < 1 {
		k = 1
	}
	for i := 0; i+k <= len(s); i++ {
		km := make([]byte, k)
		for j, l := range s[i : i+k] {
			if 'a' <= l && l <= 'z' {
				l -= 'a' - 'A'
			}
			km[j] = byte(l)
		}
		set[string(km)] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	var n int
	for km := range a {
		if b[km] {
			n++
		}
	}
	return float64(n) / float64(len(a)+len(b)-n)
}

// thresholdGraph is an undirected graph where edges must be above
// a given threshold to be returned or traversed.
type thresholdGraph struct {
	*simple.WeightedUndirectedGraph
	thresh float64
}

// From returns all nodes in g that can be reached directly from n.
func (g thresholdGraph) From(n int64) graph.Nodes {
	if g.Node(n) == nil {
		return graph.Empty
	}

	var nodes []graph.Node
	for _, to := range graph.NodesOf(g.WeightedUndirectedGraph.From(n)) {
		if g.HasEdgeBetween(n, to.ID()) {
			nodes = append(nodes, to)
		}
	}

	return iterator.NewOrderedNodes(nodes)
}

// HasEdgeBetween returns whether an edge exists between nodes x and y.
func (g thresholdGraph) HasEdgeBetween(x, y int64) bool {
	if !g.WeightedUndirectedGraph.HasEdgeBetween(x, y) {
		return false
	}
	w, _ := g.Weight(x, y)
	return w >= g.thresh
}

// Edge returns the edge from u to v if such an edge exists and nil otherwise.
func (g thresholdGraph) Edge(u, v int64) graph.Edge {
	return g.EdgeBetween(u, v)
}

// EdgeBetween returns the edge between nodes x and y.
func (g thresholdGraph) EdgeBetween(x, y int64) graph.Edge {
	e := g.WeightedUndirectedGraph.EdgeBetween(x, y)
	if e == nil {
		return nil
	}
	if w, _ := g.Weight(x, y); w < g.thresh {
		return nil
	}
	return e
}

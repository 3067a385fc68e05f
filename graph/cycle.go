// Package graph provides the undirected graph used to discover closed areas.
//
// Nodes are stable integer ids handed out by the caller (the canvas assigns
// one per distinct point, starting at 1). Adjacency lists keep insertion
// order, which makes the depth-first traversal, and therefore the cycle that
// gets reported, deterministic.
package graph

import "slices"

type color uint8

const (
	white color = iota
	grey
	black
)

// none is the parent of the traversal root. Valid ids start at 1.
const none = 0

// CycleGraph is an undirected multigraph over integer node ids.
type CycleGraph struct {
	adj   map[int][]int
	edges int
}

// New returns an empty graph.
func New() *CycleGraph {
	return &CycleGraph{adj: make(map[int][]int)}
}

// Clone returns a deep copy of the graph.
func (g *CycleGraph) Clone() *CycleGraph {
	c := &CycleGraph{adj: make(map[int][]int, len(g.adj)), edges: g.edges}
	for id, ns := range g.adj {
		c.adj[id] = slices.Clone(ns)
	}
	return c
}

// AddEdge inserts the undirected edge u-v. Self loops are ignored.
func (g *CycleGraph) AddEdge(u, v int) {
	if u == v {
		return
	}
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
	g.edges++
}

// RemoveEdge deletes one u-v edge, the earliest inserted. It reports whether
// an edge was found.
func (g *CycleGraph) RemoveEdge(u, v int) bool {
	i := slices.Index(g.adj[u], v)
	j := slices.Index(g.adj[v], u)
	if i < 0 || j < 0 {
		return false
	}
	g.adj[u] = slices.Delete(g.adj[u], i, i+1)
	g.adj[v] = slices.Delete(g.adj[v], j, j+1)
	for _, id := range []int{u, v} {
		if len(g.adj[id]) == 0 {
			delete(g.adj, id)
		}
	}
	g.edges--
	return true
}

// Neighbors returns a copy of u's adjacency list in insertion order.
func (g *CycleGraph) Neighbors(u int) []int {
	return slices.Clone(g.adj[u])
}

// Nodes returns the number of nodes with at least one edge.
func (g *CycleGraph) Nodes() int { return len(g.adj) }

// Edges returns the number of edges.
func (g *CycleGraph) Edges() int { return g.edges }

// HasNode reports whether u has at least one edge.
func (g *CycleGraph) HasNode(u int) bool {
	_, ok := g.adj[u]
	return ok
}

// FindCycle runs a depth-first traversal from start, coloring nodes
// white/grey/black. The first time the traversal reaches a grey node other
// than the one it came from, the loop is collected by walking parent links
// back from the current node to that grey node.
//
// The returned ids are in boundary order: cycle[i]-cycle[i+1] are edges, and
// so is cycle[len-1]-cycle[0]. A nil result means no cycle is reachable.
func (g *CycleGraph) FindCycle(start int) []int {
	if !g.HasNode(start) {
		return nil
	}

	colors := make(map[int]color, len(g.adj))
	parent := make(map[int]int, len(g.adj))
	var cycle []int

	var visit func(u, p int) bool
	visit = func(u, p int) bool {
		switch colors[u] {
		case black:
			return false
		case grey:
			for cur := p; ; cur = parent[cur] {
				cycle = append(cycle, cur)
				if cur == u {
					break
				}
			}
			return true
		}

		parent[u] = p
		colors[u] = grey
		for _, v := range g.adj[u] {
			if v == parent[u] {
				continue
			}
			if visit(v, u) {
				return true
			}
		}
		colors[u] = black
		return false
	}

	visit(start, none)
	return cycle
}

// ExtractCycle finds a cycle like FindCycle and removes its edges from the
// graph, so the same loop is never reported twice.
func (g *CycleGraph) ExtractCycle(start int) []int {
	cycle := g.FindCycle(start)
	for i := range cycle {
		g.RemoveEdge(cycle[i], cycle[(i+1)%len(cycle)])
	}
	return cycle
}

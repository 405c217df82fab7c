package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parallelEdges returns horizontal edges above the origin at the given
// depths, with handles in argument order
func parallelEdges(t *testing.T, depths ...float64) []*Edge {
	t.Helper()
	edges := make([]*Edge, len(depths))
	for i, d := range depths {
		e := testEdge(t, Point{X: -10, Y: -d}, Point{X: 10, Y: -d})
		e.Handle = i
		e.setSweepOrder(Point{})
		edges[i] = e
	}
	return edges
}

func TestActiveEdgesOrder(t *testing.T) {
	edges := parallelEdges(t, 30, 10, 40, 20)
	a := NewActiveEdges(Point{}, edges, Robust)
	assert.Nil(t, a.Closest())
	assert.Nil(t, a.SecondClosest())

	for _, e := range edges {
		a.Insert(e)
	}
	assert.Equal(t, 4, a.Len())
	assert.Same(t, edges[1], a.Closest())
	assert.Same(t, edges[3], a.SecondClosest())

	got := a.Edges()
	require.Len(t, got, 4)
	assert.Equal(t, []*Edge{edges[1], edges[3], edges[0], edges[2]}, got)
	assert.Equal(t, 4, a.Len(), "listing leaves the structure intact")
}

func TestActiveEdgesRemovePromotes(t *testing.T) {
	edges := parallelEdges(t, 10, 20, 30)
	a := NewActiveEdges(Point{}, edges, Robust)
	for _, e := range edges {
		a.Insert(e)
	}

	// Without a cached runner-up the heap supplies the new nearest
	assert.True(t, a.Remove(edges[0]))
	assert.Same(t, edges[1], a.Closest())
	assert.False(t, a.Contains(edges[0]))
	assert.False(t, a.Remove(edges[0]))

	// With one cached it is promoted directly
	assert.Same(t, edges[2], a.SecondClosest())
	assert.True(t, a.Remove(edges[1]))
	assert.Same(t, edges[2], a.Closest())
	assert.Nil(t, a.SecondClosest())
	assert.Equal(t, 1, a.Len())
}

func TestActiveEdgesInsertNearer(t *testing.T) {
	edges := parallelEdges(t, 30, 20, 10, 25)
	a := NewActiveEdges(Point{}, edges, Robust)

	a.Insert(edges[0])
	assert.Same(t, edges[1], func() *Edge { a.Insert(edges[1]); return a.Closest() }())
	assert.Same(t, edges[0], a.SecondClosest())

	// A new nearest demotes the old one into the runner-up slot
	a.Insert(edges[2])
	assert.Same(t, edges[2], a.Closest())
	assert.Same(t, edges[1], a.SecondClosest())

	// Between first and second
	a.Insert(edges[3])
	assert.Same(t, edges[1], a.SecondClosest())
	assert.True(t, a.Remove(edges[1]))
	assert.Same(t, edges[2], a.Closest())
	assert.Same(t, edges[3], a.SecondClosest())

	a.Insert(edges[3])
	assert.Equal(t, 3, a.Len(), "inserting twice does nothing")
}

func TestActiveEdgesRemoveFromHeap(t *testing.T) {
	edges := parallelEdges(t, 10, 20, 30, 40, 50)
	a := NewActiveEdges(Point{}, edges, Robust)
	for _, e := range edges {
		a.Insert(e)
	}

	assert.True(t, a.Remove(edges[3]))
	assert.True(t, a.Remove(edges[0]))
	assert.Equal(t, []*Edge{edges[1], edges[2], edges[4]}, a.Edges())
}

func TestAddFromEndpoint(t *testing.T) {
	origin := Point{}
	s := newEndpointSet()
	left, mid, right := s.get(Point{X: -10, Y: -10}), s.get(Point{X: 0, Y: -10}), s.get(Point{X: 10, Y: -10})

	var edges []*Edge
	for _, pair := range [][2]*Endpoint{{left, mid}, {mid, right}} {
		e, err := NewEdge(pair[0], pair[1], Wall{}, Robust)
		require.NoError(t, err)
		e.Handle = len(edges)
		e.setSweepOrder(origin)
		pair[0].Edges = append(pair[0].Edges, e)
		pair[1].Edges = append(pair[1].Edges, e)
		edges = append(edges, e)
	}

	a := NewActiveEdges(origin, edges, Robust)
	a.AddFromEndpoint(left)
	assert.Same(t, edges[0], a.Closest())

	// At the shared corner the first edge is left and the second entered
	a.AddFromEndpoint(mid)
	assert.Same(t, edges[1], a.Closest())
	assert.Equal(t, 1, a.Len())

	a.AddFromEndpoint(right)
	assert.Nil(t, a.Closest())
}

package routingalgorithm

import (
	"math"
	"testing"

	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addRoads(t *testing.T, m *datastructure.RouteModel, roads ...[]int32) {
	t.Helper()
	for i, nodes := range roads {
		_, err := m.AddRoad(int64(i), datastructure.Residential, nodes)
		require.NoError(t, err)
	}
}

// A(0,0) - B(1,0) - C(2,0)
func newLineModel(t *testing.T) *datastructure.RouteModel {
	m := datastructure.NewRouteModel(1)
	a := m.AddNode(0, 0)
	b := m.AddNode(1, 0)
	c := m.AddNode(2, 0)
	addRoads(t, m, []int32{a, b, c})
	return m
}

// size x size grid with spacing 1/(size-1). node id = row*size + col.
func newGridModel(t *testing.T, size int, metricScale float64) *datastructure.RouteModel {
	m := datastructure.NewRouteModel(metricScale)
	step := 1.0 / float64(size-1)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			m.AddNode(float64(col)*step, float64(row)*step)
		}
	}
	for row := 0; row < size; row++ {
		rowNodes := make([]int32, 0, size)
		colNodes := make([]int32, 0, size)
		for col := 0; col < size; col++ {
			rowNodes = append(rowNodes, int32(row*size+col))
			colNodes = append(colNodes, int32(col*size+row))
		}
		addRoads(t, m, rowNodes, colNodes)
	}
	return m
}

func pathIDs(path []datastructure.RouteNode) []int32 {
	ids := make([]int32, 0, len(path))
	for _, n := range path {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestAStarSearchLineGraph(t *testing.T) {
	m := newLineModel(t)
	p := NewRoutePlannerFromNodes(m, 0, 2)

	route, err := p.AStarSearch()
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 1, 2}, pathIDs(route.Path))
	assert.InDelta(t, 2.0, route.Distance, 1e-9)
	assert.Equal(t, 2, route.ExpandedNodes)
	assert.Equal(t, route.Path, m.Path())
}

func TestAStarSearchDisconnected(t *testing.T) {
	m := datastructure.NewRouteModel(1)
	a := m.AddNode(0, 0)
	b := m.AddNode(0.1, 0)
	c := m.AddNode(0.9, 0.9)
	d := m.AddNode(1, 1)
	addRoads(t, m, []int32{a, b}, []int32{c, d})

	m.SetPath([]datastructure.RouteNode{m.GetNode(a)})

	p := NewRoutePlannerFromNodes(m, a, d)
	route, err := p.AStarSearch()
	assert.ErrorIs(t, err, ErrNoPathFound)
	assert.Empty(t, route.Path)
	assert.Equal(t, 0.0, route.Distance)
	assert.Empty(t, m.Path())
}

func TestAStarSearchDegenerate(t *testing.T) {
	m := newGridModel(t, 5, 1000)

	// both points snap to node (0.25, 0.25) -> id 6
	p := NewRoutePlanner(m, 24, 26, 26, 24)
	start, ok := p.Start()
	require.True(t, ok)
	end, _ := p.End()
	assert.Equal(t, start, end)

	route, err := p.AStarSearch()
	require.NoError(t, err)
	assert.Equal(t, []int32{6}, pathIDs(route.Path))
	assert.Equal(t, 0.0, route.Distance)
	assert.Equal(t, route.Path, m.Path())
}

func TestNewRoutePlannerPercentCoordinates(t *testing.T) {
	m := datastructure.NewRouteModel(1)
	a := m.AddNode(0.1, 0.1)
	b := m.AddNode(0.9, 0.9)
	addRoads(t, m, []int32{a, b})

	p := NewRoutePlanner(m, 10, 10, 90, 90)
	start, ok := p.Start()
	assert.True(t, ok)
	assert.Equal(t, a, start)
	end, ok := p.End()
	assert.True(t, ok)
	assert.Equal(t, b, end)

	p = NewRoutePlanner(m, 100, 100, 0, 0)
	start, _ = p.Start()
	end, _ = p.End()
	assert.Equal(t, b, start)
	assert.Equal(t, a, end)
}

func TestAStarSearchNoStartInformation(t *testing.T) {
	m := datastructure.NewRouteModel(1)
	p := NewRoutePlanner(m, 10, 10, 90, 90)

	_, ok := p.Start()
	assert.False(t, ok)

	route, err := p.AStarSearch()
	assert.ErrorIs(t, err, ErrNoStartInformation)
	assert.Empty(t, route.Path)
	assert.Empty(t, m.Path())
	assert.Empty(t, p.VisitedNodes())
}

func TestAStarSearchEndUnresolved(t *testing.T) {
	m := newLineModel(t)
	p := NewRoutePlannerFromNodes(m, 0, -1)

	route, err := p.AStarSearch()
	assert.ErrorIs(t, err, ErrNoPathFound)
	assert.Empty(t, route.Path)
}

func TestAStarSearchEndpoints(t *testing.T) {
	m := newGridModel(t, 8, 1)
	queries := [][2]int32{{0, 63}, {63, 0}, {7, 56}, {12, 50}, {27, 28}}

	for _, q := range queries {
		p := NewRoutePlannerFromNodes(m, q[0], q[1])
		route, err := p.AStarSearch()
		require.NoError(t, err)
		require.NotEmpty(t, route.Path)

		assert.Equal(t, q[0], route.Path[0].ID)
		assert.Equal(t, q[1], route.Path[len(route.Path)-1].ID)

		// consecutive path nodes are adjacent
		for i := 1; i < len(route.Path); i++ {
			assert.Contains(t, m.FindNeighbors(route.Path[i-1].ID), route.Path[i].ID)
		}
	}
}

func TestAStarSearchMonotonicCost(t *testing.T) {
	m := newGridModel(t, 10, 1)
	p := NewRoutePlannerFromNodes(m, 0, 99)

	route, err := p.AStarSearch()
	require.NoError(t, err)

	for _, id := range p.VisitedNodes() {
		parent, ok := p.Parent(id)
		if id == 0 {
			assert.False(t, ok)
			assert.Equal(t, 0.0, p.G(id))
			continue
		}
		require.True(t, ok)
		assert.GreaterOrEqual(t, p.G(id), p.G(parent))
		assert.InDelta(t, p.G(parent)+m.Distance(parent, id), p.G(id), 1e-12)
	}

	assert.InDelta(t, p.G(99), route.Distance, 1e-9)
}

func TestAStarSearchAdmitsEachNodeOnce(t *testing.T) {
	m := newGridModel(t, 12, 1)
	p := NewRoutePlannerFromNodes(m, 5, 130)

	_, err := p.AStarSearch()
	require.NoError(t, err)

	visited := p.VisitedNodes()
	// start is visited without being admitted
	assert.Equal(t, len(visited)-1, p.AdmittedCount())
	assert.LessOrEqual(t, p.AdmittedCount(), m.NumNodes()-1)

	// unreachable: everything except the start is admitted exactly once
	m.AddNode(5, 5)
	p = NewRoutePlannerFromNodes(m, 0, int32(m.NumNodes()-1))
	_, err = p.AStarSearch()
	assert.ErrorIs(t, err, ErrNoPathFound)
	assert.Equal(t, 12*12-1, p.AdmittedCount())
}

func TestAStarSearchMetricScale(t *testing.T) {
	unit := newGridModel(t, 6, 1)
	scaled := newGridModel(t, 6, 250)

	r1, err := NewRoutePlannerFromNodes(unit, 2, 33).AStarSearch()
	require.NoError(t, err)
	r2, err := NewRoutePlannerFromNodes(scaled, 2, 33).AStarSearch()
	require.NoError(t, err)

	assert.Equal(t, pathIDs(r1.Path), pathIDs(r2.Path))
	assert.InDelta(t, r1.Distance*250, r2.Distance, 1e-9)
}

func TestNextNodeTieBreak(t *testing.T) {
	m := datastructure.NewRouteModel(1)
	s := m.AddNode(0.5, 0)
	left := m.AddNode(0.25, 0)
	right := m.AddNode(0.75, 0)
	e := m.AddNode(0.5, 1)
	addRoads(t, m, []int32{left, s, right})
	_, err := m.AddRoad(99, datastructure.Residential, []int32{left, e})
	require.NoError(t, err)

	p := NewRoutePlannerFromNodes(m, s, e)
	require.NoError(t, p.initSearch())
	p.AddNeighbors(s)

	// equal f, admission order wins
	require.Equal(t, p.G(left)+p.H(left), p.G(right)+p.H(right))
	first, err := p.NextNode()
	require.NoError(t, err)
	second, err := p.NextNode()
	require.NoError(t, err)
	assert.Equal(t, left, first)
	assert.Equal(t, right, second)

	_, err = p.NextNode()
	assert.ErrorIs(t, err, datastructure.ErrEmptyQueue)

	// same geometry, reversed road order
	m2 := datastructure.NewRouteModel(1)
	s = m2.AddNode(0.5, 0)
	left = m2.AddNode(0.25, 0)
	right = m2.AddNode(0.75, 0)
	e = m2.AddNode(0.5, 1)
	addRoads(t, m2, []int32{right, s, left})

	p = NewRoutePlannerFromNodes(m2, s, e)
	require.NoError(t, p.initSearch())
	p.AddNeighbors(s)
	first, _ = p.NextNode()
	assert.Equal(t, right, first)
}

func TestAddNeighborsSkipsVisited(t *testing.T) {
	m := newLineModel(t)
	p := NewRoutePlannerFromNodes(m, 0, 2)
	require.NoError(t, p.initSearch())

	p.AddNeighbors(0)
	assert.Equal(t, 1, p.AdmittedCount())
	parent, ok := p.Parent(1)
	assert.True(t, ok)
	assert.Equal(t, int32(0), parent)
	assert.InDelta(t, 1.0, p.G(1), 1e-12)
	assert.InDelta(t, 1.0, p.H(1), 1e-12)

	// 0 and 1 already visited
	p.AddNeighbors(0)
	p.AddNeighbors(1)
	assert.Equal(t, 2, p.AdmittedCount())
	parent, _ = p.Parent(2)
	assert.Equal(t, int32(1), parent)
}

func TestAStarSearchNoStaleState(t *testing.T) {
	m := newGridModel(t, 7, 1)

	first := NewRoutePlannerFromNodes(m, 0, 48)
	r1, err := first.AStarSearch()
	require.NoError(t, err)

	other := NewRoutePlannerFromNodes(m, 48, 3)
	_, err = other.AStarSearch()
	require.NoError(t, err)

	// reusing the planner and a fresh planner on the same model give the same route
	r2, err := first.AStarSearch()
	require.NoError(t, err)
	r3, err := NewRoutePlannerFromNodes(m, 0, 48).AStarSearch()
	require.NoError(t, err)

	assert.Equal(t, pathIDs(r1.Path), pathIDs(r2.Path))
	assert.Equal(t, pathIDs(r1.Path), pathIDs(r3.Path))
	assert.Equal(t, r1.Distance, r2.Distance)
	assert.Equal(t, r1.ExpandedNodes, r2.ExpandedNodes)
	assert.Equal(t, r1.Path, m.Path())
}

func TestAStarSearchDoesNotReopenVisited(t *testing.T) {
	m := datastructure.NewRouteModel(1)
	s := m.AddNode(0, 0)
	p1 := m.AddNode(1, 0)
	q := m.AddNode(1, 1)
	x := m.AddNode(2, 2)
	e := m.AddNode(4, 0)
	addRoads(t, m, []int32{s, p1}, []int32{p1, x}, []int32{s, q}, []int32{q, x}, []int32{x, e})

	route, err := NewRoutePlannerFromNodes(m, s, e).AStarSearch()
	require.NoError(t, err)

	// x is admitted from p1 first and keeps that parent although s-q-x is shorter
	assert.Equal(t, []int32{s, p1, x, e}, pathIDs(route.Path))
	assert.InDelta(t, 1+math.Sqrt(5)+2*math.Sqrt2, route.Distance, 1e-9)
	assert.Greater(t, route.Distance, 4*math.Sqrt2)
}

func TestConstructFinalPathBrokenChain(t *testing.T) {
	m := newLineModel(t)
	p := NewRoutePlannerFromNodes(m, 0, 2)
	require.NoError(t, p.initSearch())

	// cycle 1 <-> 2 never reaches the start
	p.state[1] = nodeState{parent: 2, visited: true}
	p.state[2] = nodeState{parent: 1, visited: true}
	p.admitted = 2
	_, err := p.ConstructFinalPath(2)
	assert.ErrorIs(t, err, ErrBrokenParentChain)

	// node without parent
	p.state[2] = nodeState{parent: noNode, visited: true}
	_, err = p.ConstructFinalPath(2)
	assert.ErrorIs(t, err, ErrBrokenParentChain)
}

func TestRoutePolyline(t *testing.T) {
	m := datastructure.NewRouteModel(1)
	a := m.AddNodeWithCoordinate(0, 0, 38.5, -120.2)
	b := m.AddNodeWithCoordinate(0.5, 0.5, 40.7, -120.95)
	c := m.AddNodeWithCoordinate(1, 1, 43.252, -126.453)
	addRoads(t, m, []int32{a, b, c})

	route, err := NewRoutePlannerFromNodes(m, a, c).AStarSearch()
	require.NoError(t, err)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", route.Polyline())
	assert.Len(t, route.Coordinates(), 3)
}

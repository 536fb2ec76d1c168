package routingalgorithm

import (
	"errors"

	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
	"github.com/lintang-b-s/routeplanner/pkg/util"
)

var (
	ErrNoStartInformation = errors.New("no start information, start node is not resolved")
	ErrNoPathFound        = errors.New("no path found between start and end node")
	ErrBrokenParentChain  = errors.New("parent chain does not lead back to the start node")
)

const noNode int32 = -1

type nodeState struct {
	g       float64
	h       float64
	parent  int32
	visited bool
}

type Route struct {
	Path          []datastructure.RouteNode
	Distance      float64 // meter
	ExpandedNodes int
}

func (r Route) Coordinates() []datastructure.Coordinate {
	coords := make([]datastructure.Coordinate, 0, len(r.Path))
	for _, node := range r.Path {
		coords = append(coords, node.Coordinate())
	}
	return coords
}

func (r Route) Polyline() string {
	return datastructure.CreatePolyline(r.Coordinates())
}

// RoutePlanner A* search between two nodes of a RouteModel.
// g, h, parent & visited of every node are kept per query in state, the model only stores the map.
// a node is admitted to the open list at most once and its cost is fixed at admission.
type RoutePlanner struct {
	model RouteModel
	start int32
	end   int32

	state    map[int32]nodeState
	openList *datastructure.MinHeap[int32]
	admitted int
	expanded int
}

// NewRoutePlanner. start & end coordinates in percent (0-100) of the map extent.
func NewRoutePlanner(model RouteModel, startX, startY, endX, endY float64) *RoutePlanner {
	startX, startY = util.PercentToFraction(startX), util.PercentToFraction(startY)
	endX, endY = util.PercentToFraction(endX), util.PercentToFraction(endY)

	start, ok := model.FindClosestNode(startX, startY)
	if !ok {
		start = noNode
	}
	end, ok := model.FindClosestNode(endX, endY)
	if !ok {
		end = noNode
	}
	return NewRoutePlannerFromNodes(model, start, end)
}

// NewRoutePlannerFromNodes planner between already resolved nodes. a negative id means unresolved.
func NewRoutePlannerFromNodes(model RouteModel, start, end int32) *RoutePlanner {
	if start < 0 {
		start = noNode
	}
	if end < 0 {
		end = noNode
	}
	return &RoutePlanner{
		model:    model,
		start:    start,
		end:      end,
		state:    make(map[int32]nodeState),
		openList: datastructure.NewMinHeap[int32](),
	}
}

func (p *RoutePlanner) Start() (int32, bool) {
	return p.start, p.start != noNode
}

func (p *RoutePlanner) End() (int32, bool) {
	return p.end, p.end != noNode
}

// CalculateHValue straight line distance from node to the end node.
func (p *RoutePlanner) CalculateHValue(nodeID int32) float64 {
	return p.model.Distance(nodeID, p.end)
}

func (p *RoutePlanner) getState(nodeID int32) nodeState {
	st, ok := p.state[nodeID]
	if !ok {
		return nodeState{parent: noNode}
	}
	return st
}

// AddNeighbors admit every unvisited neighbor of current to the open list with
// parent current, g = g(current) + distance(current, neighbor), h = distance(neighbor, end).
func (p *RoutePlanner) AddNeighbors(current int32) {
	p.expanded++
	currentG := p.getState(current).g

	for _, neighbor := range p.model.FindNeighbors(current) {
		if p.getState(neighbor).visited {
			continue
		}

		st := nodeState{
			g:       currentG + p.model.Distance(neighbor, current),
			h:       p.CalculateHValue(neighbor),
			parent:  current,
			visited: true,
		}
		p.state[neighbor] = st
		p.admitted++

		p.openList.Insert(datastructure.NewPriorityQueueNode(st.g+st.h, neighbor))
	}
}

// NextNode pop the open node with the lowest f = g + h. equal f pop in admission order.
func (p *RoutePlanner) NextNode() (int32, error) {
	node, err := p.openList.ExtractMin()
	if err != nil {
		return noNode, err
	}
	return node.Item, nil
}

// ConstructFinalPath walk parent links from goal back to start. returns the path ordered start -> goal
// and its length scaled to meters.
func (p *RoutePlanner) ConstructFinalPath(goal int32) (Route, error) {
	if p.start == noNode {
		return Route{}, ErrNoStartInformation
	}

	path := make([]datastructure.RouteNode, 0)
	distance := 0.0

	current := goal
	for current != p.start {
		st, ok := p.state[current]
		if !ok || st.parent == noNode || len(path) >= p.admitted {
			return Route{}, ErrBrokenParentChain
		}

		path = append(path, p.model.GetNode(current))
		distance += p.model.Distance(current, st.parent)
		current = st.parent
	}
	path = append(path, p.model.GetNode(p.start))

	return Route{
		Path:          util.ReverseG(path),
		Distance:      distance * p.model.MetricScale(),
		ExpandedNodes: p.expanded,
	}, nil
}

func (p *RoutePlanner) reset() {
	p.state = make(map[int32]nodeState)
	p.openList.Clear()
	p.admitted = 0
	p.expanded = 0
}

// initSearch reset per query state and mark the start node visited.
func (p *RoutePlanner) initSearch() error {
	p.reset()
	if p.start == noNode {
		return ErrNoStartInformation
	}
	if p.end == noNode {
		return ErrNoPathFound
	}

	p.state[p.start] = nodeState{
		g:       0,
		h:       p.CalculateHValue(p.start),
		parent:  noNode,
		visited: true,
	}
	return nil
}

// AStarSearch find the route from start to end. the route is also stored in the model path, on
// failure the model path is set empty.
func (p *RoutePlanner) AStarSearch() (Route, error) {
	if err := p.initSearch(); err != nil {
		p.model.SetPath([]datastructure.RouteNode{})
		return Route{}, err
	}

	if p.start == p.end {
		return p.finish(p.start)
	}

	p.AddNeighbors(p.start)

	for p.openList.Size() > 0 {
		current, err := p.NextNode()
		if err != nil {
			break
		}

		if current == p.end {
			return p.finish(current)
		}

		p.AddNeighbors(current)
	}

	p.model.SetPath([]datastructure.RouteNode{})
	return Route{}, ErrNoPathFound
}

func (p *RoutePlanner) finish(goal int32) (Route, error) {
	route, err := p.ConstructFinalPath(goal)
	if err != nil {
		p.model.SetPath([]datastructure.RouteNode{})
		return Route{}, err
	}
	p.model.SetPath(route.Path)
	return route, nil
}

// G cost from start to nodeID of the last search. 0 for nodes never reached.
func (p *RoutePlanner) G(nodeID int32) float64 {
	return p.getState(nodeID).g
}

func (p *RoutePlanner) H(nodeID int32) float64 {
	return p.getState(nodeID).h
}

// Parent parent of nodeID in the last search. false for the start node and nodes never reached.
func (p *RoutePlanner) Parent(nodeID int32) (int32, bool) {
	parent := p.getState(nodeID).parent
	return parent, parent != noNode
}

func (p *RoutePlanner) Visited(nodeID int32) bool {
	return p.getState(nodeID).visited
}

// AdmittedCount number of nodes pushed to the open list in the last search.
func (p *RoutePlanner) AdmittedCount() int {
	return p.admitted
}

func (p *RoutePlanner) VisitedNodes() []int32 {
	nodes := make([]int32, 0, len(p.state))
	for id, st := range p.state {
		if st.visited {
			nodes = append(nodes, id)
		}
	}
	return nodes
}

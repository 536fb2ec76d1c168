package datastructure

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/routeplanner/pkg/snap"
)

var (
	ErrNodeNotFound = errors.New("node not found")
)

type RoadType uint8

const (
	Motorway RoadType = iota
	Trunk
	Primary
	Secondary
	Tertiary
	Residential
	Service
	Unclassified
	Footway
)

var roadTypeNames = map[RoadType]string{
	Motorway:     "motorway",
	Trunk:        "trunk",
	Primary:      "primary",
	Secondary:    "secondary",
	Tertiary:     "tertiary",
	Residential:  "residential",
	Service:      "service",
	Unclassified: "unclassified",
	Footway:      "footway",
}

func (t RoadType) String() string {
	if name, ok := roadTypeNames[t]; ok {
		return name
	}
	return "invalid"
}

// RoadTypeFromHighway map osm highway tag value to RoadType.
// link roads (motorway_link, ...) are classified as their parent road.
func RoadTypeFromHighway(highway string) (RoadType, bool) {
	switch highway {
	case "motorway", "motorway_link":
		return Motorway, true
	case "trunk", "trunk_link":
		return Trunk, true
	case "primary", "primary_link":
		return Primary, true
	case "secondary", "secondary_link":
		return Secondary, true
	case "tertiary", "tertiary_link":
		return Tertiary, true
	case "residential", "living_street":
		return Residential, true
	case "service":
		return Service, true
	case "unclassified", "road":
		return Unclassified, true
	case "footway", "pedestrian", "path", "steps":
		return Footway, true
	}
	return 0, false
}

// RouteNode. X, Y in map-fraction units ([0,1] over the map extent).
type RouteNode struct {
	ID  int32   `json:"id"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (n RouteNode) Coordinate() Coordinate {
	return NewCoordinate(n.Lat, n.Lon)
}

type Road struct {
	ID      int32
	WayID   int64
	Type    RoadType
	NodeIDs []int32
}

func (r Road) Routable() bool {
	return r.Type != Footway
}

// RouteModel owns node & road storage of the map. node references are indexes into nodes.
type RouteModel struct {
	nodes       []RouteNode
	roads       []Road
	nodeRoads   [][]int32
	metricScale float64

	// lazy adjacency cache
	neighbors      [][]int32
	neighborsBuilt []bool

	snapper   *snap.NodeSnapper
	snappable []bool

	path []RouteNode
}

func NewRouteModel(metricScale float64) *RouteModel {
	return &RouteModel{
		nodes:          make([]RouteNode, 0),
		roads:          make([]Road, 0),
		nodeRoads:      make([][]int32, 0),
		metricScale:    metricScale,
		neighbors:      make([][]int32, 0),
		neighborsBuilt: make([]bool, 0),
		snapper:        snap.NewNodeSnapper(),
		snappable:      make([]bool, 0),
		path:           make([]RouteNode, 0),
	}
}

func (m *RouteModel) AddNode(x, y float64) int32 {
	return m.AddNodeWithCoordinate(x, y, 0, 0)
}

func (m *RouteModel) AddNodeWithCoordinate(x, y, lat, lon float64) int32 {
	id := int32(len(m.nodes))
	m.nodes = append(m.nodes, RouteNode{
		ID:  id,
		X:   x,
		Y:   y,
		Lat: lat,
		Lon: lon,
	})
	m.nodeRoads = append(m.nodeRoads, nil)
	m.neighbors = append(m.neighbors, nil)
	m.neighborsBuilt = append(m.neighborsBuilt, false)
	m.snappable = append(m.snappable, false)
	return id
}

// AddRoad add a road passing through nodeIDs in order. nodes of a routable road become
// candidates of FindClosestNode.
func (m *RouteModel) AddRoad(wayID int64, roadType RoadType, nodeIDs []int32) (int32, error) {
	for _, nodeID := range nodeIDs {
		if !m.validNode(nodeID) {
			return -1, fmt.Errorf("add road %d: %w: %d", wayID, ErrNodeNotFound, nodeID)
		}
	}

	roadID := int32(len(m.roads))
	road := Road{
		ID:      roadID,
		WayID:   wayID,
		Type:    roadType,
		NodeIDs: append([]int32(nil), nodeIDs...),
	}
	m.roads = append(m.roads, road)

	for _, nodeID := range road.NodeIDs {
		m.nodeRoads[nodeID] = append(m.nodeRoads[nodeID], roadID)
		m.neighborsBuilt[nodeID] = false

		if road.Routable() && !m.snappable[nodeID] {
			m.snappable[nodeID] = true
			node := m.nodes[nodeID]
			m.snapper.InsertNode(nodeID, node.X, node.Y)
		}
	}
	return roadID, nil
}

func (m *RouteModel) validNode(nodeID int32) bool {
	return nodeID >= 0 && int(nodeID) < len(m.nodes)
}

func (m *RouteModel) NumNodes() int {
	return len(m.nodes)
}

func (m *RouteModel) NumRoads() int {
	return len(m.roads)
}

func (m *RouteModel) GetNode(nodeID int32) RouteNode {
	return m.nodes[nodeID]
}

func (m *RouteModel) GetNodes() []RouteNode {
	return m.nodes
}

func (m *RouteModel) GetRoads() []Road {
	return m.roads
}

// GetNodeRoads roads passing through nodeID, footways included.
func (m *RouteModel) GetNodeRoads(nodeID int32) []Road {
	roads := make([]Road, 0, len(m.nodeRoads[nodeID]))
	for _, roadID := range m.nodeRoads[nodeID] {
		roads = append(roads, m.roads[roadID])
	}
	return roads
}

// RoutableNodes nodes lying on at least one non-footway road.
func (m *RouteModel) RoutableNodes() []RouteNode {
	nodes := make([]RouteNode, 0, len(m.nodes))
	for i, node := range m.nodes {
		if m.snappable[i] {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func (m *RouteModel) IsRoutable(nodeID int32) bool {
	return m.validNode(nodeID) && m.snappable[nodeID]
}

// FindNeighbors nodes adjacent to nodeID along every routable road passing through it.
// computed on first call and cached until a road touching nodeID is added.
func (m *RouteModel) FindNeighbors(nodeID int32) []int32 {
	if !m.validNode(nodeID) {
		return nil
	}
	if m.neighborsBuilt[nodeID] {
		return m.neighbors[nodeID]
	}

	seen := make(map[int32]struct{})
	neighbors := make([]int32, 0, 2*len(m.nodeRoads[nodeID]))
	add := func(id int32) {
		if id == nodeID {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		neighbors = append(neighbors, id)
	}

	for _, roadID := range m.nodeRoads[nodeID] {
		road := m.roads[roadID]
		if !road.Routable() {
			continue
		}
		for i, id := range road.NodeIDs {
			if id != nodeID {
				continue
			}
			if i > 0 {
				add(road.NodeIDs[i-1])
			}
			if i < len(road.NodeIDs)-1 {
				add(road.NodeIDs[i+1])
			}
		}
	}

	m.neighbors[nodeID] = neighbors
	m.neighborsBuilt[nodeID] = true
	return neighbors
}

// FindClosestNode nearest node (euclidean, map-fraction units) lying on a routable road.
// false if the model has no such node.
func (m *RouteModel) FindClosestNode(x, y float64) (int32, bool) {
	return m.snapper.SnapToNode(x, y)
}

// Distance euclidean distance in map-fraction units.
func (m *RouteModel) Distance(from, to int32) float64 {
	a, b := m.nodes[from], m.nodes[to]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// MetricScale meters per map-fraction unit.
func (m *RouteModel) MetricScale() float64 {
	return m.metricScale
}

func (m *RouteModel) SetMetricScale(metricScale float64) {
	m.metricScale = metricScale
}

func (m *RouteModel) SetPath(path []RouteNode) {
	m.path = append(make([]RouteNode, 0, len(path)), path...)
}

// Path last route stored by SetPath.
func (m *RouteModel) Path() []RouteNode {
	return m.path
}

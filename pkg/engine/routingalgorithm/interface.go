package routingalgorithm

import "github.com/lintang-b-s/routeplanner/pkg/datastructure"

type RouteModel interface {
	// FindClosestNode nearest routable node to (x, y) in map-fraction units.
	FindClosestNode(x, y float64) (int32, bool)
	FindNeighbors(nodeID int32) []int32
	GetNode(nodeID int32) datastructure.RouteNode
	Distance(from, to int32) float64
	MetricScale() float64
	SetPath(path []datastructure.RouteNode)
}

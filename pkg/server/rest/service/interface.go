package service

import (
	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
	"github.com/lintang-b-s/routeplanner/pkg/engine/routingalgorithm"
)

type RouteModel interface {
	routingalgorithm.RouteModel
	IsRoutable(nodeID int32) bool
}

type KVDB interface {
	GetNearestNodesFromPointCoord(lat, lon float64) ([]datastructure.KVNode, error)
}

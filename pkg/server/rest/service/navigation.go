package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"

	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
	"github.com/lintang-b-s/routeplanner/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/server"
)

var (
	ErrNoRoutableNode = errors.New("no routable node near the location")
)

// max lat/lon difference (degree) between a kv node and the model node with the same id.
const nodeCoordTolerance = 1e-9

type ShortestPathResult struct {
	Path          string
	Distance      float64 // meter
	Route         []datastructure.Coordinate
	ExpandedNodes int
	Found         bool
}

// NavigationService. searches on the shared model are serialized, the model adjacency cache and path
// are mutated by every search.
type NavigationService struct {
	mu    sync.Mutex
	model RouteModel
	kv    KVDB
}

func NewNavigationService(model RouteModel, kv KVDB) *NavigationService {
	return &NavigationService{model: model, kv: kv}
}

// ShortestPath start & end in percent (0-100) of the map extent.
func (uc *NavigationService) ShortestPath(ctx context.Context, startX, startY, endX, endY float64) (ShortestPathResult, error) {
	for _, v := range []float64{startX, startY, endX, endY} {
		if v < 0 || v > 100 || math.IsNaN(v) {
			return ShortestPathResult{}, server.WrapErrorf(nil, server.ErrBadParamInput, "coordinates must be between 0 and 100")
		}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "request cancelled")
	}

	planner := routingalgorithm.NewRoutePlanner(uc.model, startX, startY, endX, endY)
	return uc.search(planner)
}

// ShortestPathLatLon snap both locations to the nearest routable node, then search.
func (uc *NavigationService) ShortestPathLatLon(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (ShortestPathResult, error) {
	from, err := uc.SnapLocToNode(srcLat, srcLon)
	if err != nil {
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrNotFound, "sorry!! the location you entered is not covered on my map :(, please use diferrent openstreetmap file")
	}
	to, err := uc.SnapLocToNode(dstLat, dstLon)
	if err != nil {
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrNotFound, "sorry!! the location you entered is not covered on my map :(, please use diferrent openstreetmap file")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "request cancelled")
	}

	planner := routingalgorithm.NewRoutePlannerFromNodes(uc.model, from, to)
	return uc.search(planner)
}

func (uc *NavigationService) search(planner *routingalgorithm.RoutePlanner) (ShortestPathResult, error) {
	route, err := planner.AStarSearch()
	switch {
	case errors.Is(err, routingalgorithm.ErrNoStartInformation):
		log.Printf("shortest path: %v", err)
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrNotFound, "no start information, the map has no routable road")
	case errors.Is(err, routingalgorithm.ErrNoPathFound):
		start, _ := planner.Start()
		end, _ := planner.End()
		log.Printf("shortest path: no path found from node %d to node %d", start, end)
		return ShortestPathResult{
			Route: []datastructure.Coordinate{},
			Found: false,
		}, nil
	case err != nil:
		log.Printf("shortest path: %v", err)
		return ShortestPathResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	return ShortestPathResult{
		Path:          route.Polyline(),
		Distance:      route.Distance,
		Route:         route.Coordinates(),
		ExpandedNodes: route.ExpandedNodes,
		Found:         true,
	}, nil
}

// SnapLocToNode nearest routable node by great circle distance among the nodes of the h3 cells around (lat, lon).
// kv nodes whose coordinate differs from the model node with the same id were indexed from another map and are skipped.
func (uc *NavigationService) SnapLocToNode(lat, lon float64) (int32, error) {
	nodes, err := uc.kv.GetNearestNodesFromPointCoord(lat, lon)
	if err != nil {
		return -1, err
	}

	best := math.MaxFloat64
	snapped := int32(-1)
	for _, node := range nodes {
		if !uc.model.IsRoutable(node.ID) {
			continue
		}
		modelNode := uc.model.GetNode(node.ID)
		if math.Abs(modelNode.Lat-node.Lat) > nodeCoordTolerance || math.Abs(modelNode.Lon-node.Lon) > nodeCoordTolerance {
			continue
		}
		dist := geo.CalculateHaversineDistance(lat, lon, node.Lat, node.Lon)
		if dist < best || (dist == best && node.ID < snapped) {
			best = dist
			snapped = node.ID
		}
	}
	if snapped == -1 {
		return -1, ErrNoRoutableNode
	}
	return snapped, nil
}

package snap

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

const (
	tol = 1e-9

	// number of rtree candidates re-ranked by exact distance.
	nearestCandidates = 8
)

type nodePoint struct {
	id       int32
	location rtreego.Point
}

func (p *nodePoint) Bounds() rtreego.Rect {
	// rectangle centered at p.location with side lengths 2 * tol
	return p.location.ToRect(tol)
}

// NodeSnapper snap a point in map-fraction units to the nearest inserted node.
type NodeSnapper struct {
	rtree *rtreego.Rtree
}

func NewNodeSnapper() *NodeSnapper {
	return &NodeSnapper{
		rtree: rtreego.NewTree(2, 25, 50), // 2 dimension, 25 min entries dan 50 max entries
	}
}

func (s *NodeSnapper) InsertNode(id int32, x, y float64) {
	s.rtree.Insert(&nodePoint{id: id, location: rtreego.Point{x, y}})
}

func (s *NodeSnapper) Size() int {
	return s.rtree.Size()
}

// SnapToNode nearest node to (x, y). equidistant nodes resolve to the lower id.
func (s *NodeSnapper) SnapToNode(x, y float64) (int32, bool) {
	size := s.rtree.Size()
	if size == 0 {
		return -1, false
	}

	wantToSnap := rtreego.Point{x, y}
	// widen the candidate set while its farthest member still ties with the best, otherwise
	// an equidistant node with a lower id may be left outside the k nearest.
	for k := nearestCandidates; ; k *= 2 {
		snapped, best, farthest := nearestOf(s.rtree.NearestNeighbors(k, wantToSnap), x, y)
		if k >= size || farthest > best {
			return snapped, snapped != -1
		}
	}
}

func nearestOf(candidates []rtreego.Spatial, x, y float64) (snapped int32, best, farthest float64) {
	best = math.MaxFloat64
	snapped = int32(-1)
	for _, c := range candidates {
		if c == nil {
			continue
		}
		node := c.(*nodePoint)
		dist := math.Hypot(node.location[0]-x, node.location[1]-y)
		farthest = math.Max(farthest, dist)
		if dist < best || (dist == best && node.id < snapped) {
			best = dist
			snapped = node.id
		}
	}
	return snapped, best, farthest
}

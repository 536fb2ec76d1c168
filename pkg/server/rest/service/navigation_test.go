package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
	"github.com/lintang-b-s/routeplanner/pkg/kv"
	"github.com/lintang-b-s/routeplanner/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	nodes []datastructure.KVNode
	err   error
}

func (f *fakeKV) GetNearestNodesFromPointCoord(lat, lon float64) ([]datastructure.KVNode, error) {
	return f.nodes, f.err
}

// 0 (0.1,0.1) - 1 (0.5,0.1) - 2 (0.9,0.1), island 3 (0.9,0.9) - 4 (0.95,0.95), footway node 5
func newTestModel(t *testing.T) *datastructure.RouteModel {
	t.Helper()
	m := datastructure.NewRouteModel(1000)
	m.AddNodeWithCoordinate(0.1, 0.1, -7.560, 110.800)
	m.AddNodeWithCoordinate(0.5, 0.1, -7.560, 110.804)
	m.AddNodeWithCoordinate(0.9, 0.1, -7.560, 110.808)
	m.AddNodeWithCoordinate(0.9, 0.9, -7.552, 110.808)
	m.AddNodeWithCoordinate(0.95, 0.95, -7.5515, 110.8085)
	m.AddNodeWithCoordinate(0.5, 0.5, -7.556, 110.804)

	roads := []struct {
		roadType datastructure.RoadType
		nodes    []int32
	}{
		{datastructure.Primary, []int32{0, 1, 2}},
		{datastructure.Residential, []int32{3, 4}},
		{datastructure.Footway, []int32{1, 5}},
	}
	for i, r := range roads {
		_, err := m.AddRoad(int64(i), r.roadType, r.nodes)
		require.NoError(t, err)
	}
	return m
}

func serverCode(t *testing.T, err error) error {
	t.Helper()
	var serr *server.Error
	require.True(t, errors.As(err, &serr))
	return serr.Code()
}

func TestShortestPath(t *testing.T) {
	m := newTestModel(t)
	svc := NewNavigationService(m, &fakeKV{})

	res, err := svc.ShortestPath(context.Background(), 10, 10, 90, 10)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.InDelta(t, 800.0, res.Distance, 1e-6)
	assert.Len(t, res.Route, 3)
	assert.NotEmpty(t, res.Path)
	assert.Equal(t, 3, len(m.Path()))

	decoded, err := datastructure.DecodePolyline(res.Path)
	require.NoError(t, err)
	assert.Len(t, decoded, 3)
}

func TestShortestPathNotFound(t *testing.T) {
	m := newTestModel(t)
	svc := NewNavigationService(m, &fakeKV{})

	res, err := svc.ShortestPath(context.Background(), 10, 10, 92, 92)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Empty(t, res.Route)
	assert.Empty(t, res.Path)
	assert.Empty(t, m.Path())
}

func TestShortestPathInvalidInput(t *testing.T) {
	svc := NewNavigationService(newTestModel(t), &fakeKV{})

	_, err := svc.ShortestPath(context.Background(), -1, 10, 90, 10)
	assert.Equal(t, server.ErrBadParamInput, serverCode(t, err))

	_, err = svc.ShortestPath(context.Background(), 10, 10, 90, 100.5)
	assert.Equal(t, server.ErrBadParamInput, serverCode(t, err))
}

func TestShortestPathEmptyModel(t *testing.T) {
	svc := NewNavigationService(datastructure.NewRouteModel(1), &fakeKV{})

	_, err := svc.ShortestPath(context.Background(), 10, 10, 90, 10)
	assert.Equal(t, server.ErrNotFound, serverCode(t, err))
}

func TestShortestPathCancelled(t *testing.T) {
	svc := NewNavigationService(newTestModel(t), &fakeKV{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ShortestPath(ctx, 10, 10, 90, 10)
	assert.Equal(t, server.ErrInternalServerError, serverCode(t, err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShortestPathLatLon(t *testing.T) {
	m := newTestModel(t)
	kvNodes := make([]datastructure.KVNode, 0)
	for _, n := range m.GetNodes() {
		kvNodes = append(kvNodes, datastructure.NewKVNode(n.ID, n.Lat, n.Lon))
	}
	svc := NewNavigationService(m, &fakeKV{nodes: kvNodes})

	res, err := svc.ShortestPathLatLon(context.Background(), -7.5601, 110.8001, -7.5601, 110.8079)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Len(t, res.Route, 3)
	assert.InDelta(t, -7.560, res.Route[0].Lat, 1e-9)
	assert.InDelta(t, 110.808, res.Route[2].Lon, 1e-9)
}

func TestSnapLocToNodeSkipsFootwayNodes(t *testing.T) {
	m := newTestModel(t)
	// only the footway node 5 and node 1 are candidates, node 5 is closer
	svc := NewNavigationService(m, &fakeKV{nodes: []datastructure.KVNode{
		datastructure.NewKVNode(5, -7.556, 110.804),
		datastructure.NewKVNode(1, -7.560, 110.804),
	}})

	id, err := svc.SnapLocToNode(-7.556, 110.804)
	require.NoError(t, err)
	assert.Equal(t, int32(1), id)

	svc = NewNavigationService(m, &fakeKV{nodes: []datastructure.KVNode{datastructure.NewKVNode(5, -7.556, 110.804)}})
	_, err = svc.SnapLocToNode(-7.556, 110.804)
	assert.ErrorIs(t, err, ErrNoRoutableNode)
}

func TestShortestPathLatLonNotCovered(t *testing.T) {
	svc := NewNavigationService(newTestModel(t), &fakeKV{err: kv.ErrNodesNotFound})

	_, err := svc.ShortestPathLatLon(context.Background(), 51.5, -0.12, 51.6, -0.11)
	assert.Equal(t, server.ErrNotFound, serverCode(t, err))
	assert.ErrorIs(t, err, kv.ErrNodesNotFound)
}

func TestSnapLocToNodeRejectsNodesOfAnotherMap(t *testing.T) {
	m := newTestModel(t)
	// ids 0 & 1 exist in the model, but these coordinates belong to another map
	svc := NewNavigationService(m, &fakeKV{nodes: []datastructure.KVNode{
		datastructure.NewKVNode(0, 51.5000, -0.1200),
		datastructure.NewKVNode(1, 51.5010, -0.1210),
	}})

	_, err := svc.SnapLocToNode(51.5, -0.12)
	assert.ErrorIs(t, err, ErrNoRoutableNode)

	_, err = svc.ShortestPathLatLon(context.Background(), 51.5, -0.12, 51.501, -0.121)
	assert.Equal(t, server.ErrNotFound, serverCode(t, err))
}

func TestShortestPathLatLonAfterReindex(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	london := []datastructure.RouteNode{
		{ID: 0, Lat: 51.5000, Lon: -0.1200},
		{ID: 1, Lat: 51.5010, Lon: -0.1210},
	}
	require.NoError(t, kvDB.BuildH3IndexedNodes(context.Background(), london))

	m := newTestModel(t)
	require.NoError(t, kvDB.BuildH3IndexedNodes(context.Background(), m.RoutableNodes()))
	svc := NewNavigationService(m, kvDB)

	_, err = svc.ShortestPathLatLon(context.Background(), 51.5, -0.12, 51.501, -0.121)
	assert.Equal(t, server.ErrNotFound, serverCode(t, err))

	res, err := svc.ShortestPathLatLon(context.Background(), -7.5601, 110.8001, -7.5601, 110.8079)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Len(t, res.Route, 3)
}

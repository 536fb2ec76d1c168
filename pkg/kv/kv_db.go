package kv

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"math"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/routeplanner/pkg/concurrent"
	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
	"github.com/uber/h3-go/v4"
)

var (
	ErrNodesNotFound = errors.New("nodes not found")
)

const (
	h3Resolution = 9
	maxRingLevel = 10
	batchSize    = 1000

	// not a valid h3 cell string, never collides with a cell key.
	fingerprintKey = "meta:nodes_fingerprint"
)

type KVDB struct {
	db *badger.DB
}

func NewKVDB(db *badger.DB) *KVDB {
	return &KVDB{db}
}

func cellKey(lat, lon float64) h3.Cell {
	return h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)
}

// nodesFingerprint xxhash of every node id & coordinate, identifies the map an index was built from.
func nodesFingerprint(nodes []datastructure.RouteNode) []byte {
	d := xxhash.New()
	buf := make([]byte, 0, 20)
	for _, node := range nodes {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint32(buf, uint32(node.ID))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(node.Lat))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(node.Lon))
		d.Write(buf)
	}
	return binary.LittleEndian.AppendUint64(nil, d.Sum64())
}

// IndexUpToDate true if the db holds a complete h3 index built from exactly these nodes.
func (k *KVDB) IndexUpToDate(nodes []datastructure.RouteNode) (bool, error) {
	stored, err := k.get([]byte(fingerprintKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bytes.Equal(stored, nodesFingerprint(nodes)), nil
}

// BuildH3IndexedNodes bucket nodes by h3 cell (resolution 9) and save every bucket to badger.
// cells of a previously indexed map are dropped first. the fingerprint of nodes is written last,
// so an interrupted build is never reported as up to date.
func (k *KVDB) BuildH3IndexedNodes(ctx context.Context, nodes []datastructure.RouteNode) error {
	log.Printf("creating & saving h3 indexed nodes to key-value db...")
	kv := make(map[string][]datastructure.KVNode)
	for _, node := range nodes {
		select {
		case <-ctx.Done():
			return fmt.Errorf("build h3 index: %w", ctx.Err())
		default:
		}

		cell := cellKey(node.Lat, node.Lon).String()
		kv[cell] = append(kv[cell], datastructure.NewKVNode(node.ID, node.Lat, node.Lon))
	}

	if err := k.db.DropAll(); err != nil {
		return fmt.Errorf("drop old h3 index: %w", err)
	}

	wp := concurrent.NewWorkerPool[concurrent.SaveNodeJobItem, concurrent.EncodedNodeResult](runtime.NumCPU(), len(kv))
	wp.Start(func(job concurrent.SaveNodeJobItem) concurrent.EncodedNodeResult {
		val, err := encodeNodes(job.ValArr)
		return concurrent.EncodedNodeResult{KeyStr: job.KeyStr, Val: val, Err: err}
	})
	for key, value := range kv {
		wp.AddJob(concurrent.SaveNodeJobItem{KeyStr: key, ValArr: value})
	}
	wp.Close()
	wp.Wait()

	batches := make([]concurrent.EncodedNodeResult, 0, batchSize)
	for res := range wp.CollectResults() {
		if res.Err != nil {
			return fmt.Errorf("encode nodes of cell %s: %w", res.KeyStr, res.Err)
		}

		batches = append(batches, res)
		if len(batches) == batchSize {
			if err := k.saveBatchNodes(ctx, batches); err != nil {
				return err
			}
			batches = make([]concurrent.EncodedNodeResult, 0, batchSize)
		}
	}

	if len(batches) > 0 {
		if err := k.saveBatchNodes(ctx, batches); err != nil {
			return err
		}
	}

	err := k.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(fingerprintKey), nodesFingerprint(nodes))
	})
	if err != nil {
		return fmt.Errorf("save h3 index fingerprint: %w", err)
	}

	log.Printf("creating & saving h3 indexed nodes to key-value db done, %d cells", len(kv))
	return nil
}

func (k *KVDB) saveBatchNodes(ctx context.Context, batchData []concurrent.EncodedNodeResult) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for _, data := range batchData {
		select {
		case <-ctx.Done():
			return fmt.Errorf("save nodes: %w", ctx.Err())
		default:
		}

		if err := batch.Set([]byte(data.KeyStr), data.Val); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		log.Printf("error saving nodes: %v", err)
		return err
	}
	return nil
}

func (k *KVDB) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

func (k *KVDB) getCellNodes(cell h3.Cell) ([]datastructure.KVNode, error) {
	val, err := k.get([]byte(cell.String()))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return []datastructure.KVNode{}, nil
		}
		return []datastructure.KVNode{}, err
	}
	return loadNodes(val)
}

// GetNearestNodesFromPointCoord nodes in the h3 cell of (lat, lon). if the cell is empty, search
// the grid disk around it with k = 1..10 and stop at the first non empty ring.
func (k *KVDB) GetNearestNodesFromPointCoord(lat, lon float64) ([]datastructure.KVNode, error) {
	cell := cellKey(lat, lon)

	nodes, err := k.getCellNodes(cell)
	if err != nil {
		return []datastructure.KVNode{}, err
	}

	searched := map[h3.Cell]struct{}{cell: {}}
	for lev := 1; lev <= maxRingLevel && len(nodes) == 0; lev++ {
		for _, currCell := range h3.GridDisk(cell, lev) {
			if _, ok := searched[currCell]; ok {
				continue
			}
			searched[currCell] = struct{}{}

			cellNodes, err := k.getCellNodes(currCell)
			if err != nil {
				return []datastructure.KVNode{}, err
			}
			nodes = append(nodes, cellNodes...)
		}
	}

	if len(nodes) == 0 {
		return []datastructure.KVNode{}, ErrNodesNotFound
	}
	return nodes, nil
}

func (k *KVDB) Close() error {
	return k.db.Close()
}

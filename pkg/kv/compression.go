package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
)

func encodeNodes(nodes []datastructure.KVNode) ([]byte, error) {
	bb, err := binary.Marshal(nodes)
	if err != nil {
		return []byte{}, err
	}
	return compress(bb)
}

func loadNodes(bbCompressed []byte) ([]datastructure.KVNode, error) {
	if len(bbCompressed) == 0 {
		return []datastructure.KVNode{}, nil
	}
	bb, err := decompress(bbCompressed)
	if err != nil {
		return []datastructure.KVNode{}, err
	}

	var nodes []datastructure.KVNode
	if err := binary.Unmarshal(bb, &nodes); err != nil {
		return []datastructure.KVNode{}, err
	}
	return nodes, nil
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}

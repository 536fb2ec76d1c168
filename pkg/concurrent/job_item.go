package concurrent

import (
	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
)

// SaveNodeJobItem nodes of one h3 cell waiting to be encoded.
type SaveNodeJobItem struct {
	KeyStr string
	ValArr []datastructure.KVNode
}

type EncodedNodeResult struct {
	KeyStr string
	Val    []byte
	Err    error
}

type JobI interface {
	SaveNodeJobItem
}

type JobFunc[T JobI, G any] func(job T) G

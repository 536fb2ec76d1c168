package datastructure

import "errors"

var (
	ErrEmptyQueue = errors.New("priority queue is empty")
)

type PriorityQueueNode[T any] struct {
	Rank float64
	Item T

	// insertion sequence. ties on Rank are popped in insertion order.
	seq uint64
}

func NewPriorityQueueNode[T any](rank float64, item T) PriorityQueueNode[T] {
	return PriorityQueueNode[T]{Rank: rank, Item: item}
}

// MinHeap binary heap priorityqueue. no decrease-key, an item rank is fixed once inserted.
type MinHeap[T any] struct {
	heap    []PriorityQueueNode[T]
	counter uint64
}

func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
	}
}

// parent get index of the parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

// leftChild get index of the left child
func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

// rightChild get index of the right child
func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

// less lower rank first, then lower insertion sequence.
func (h *MinHeap[T]) less(i, j int) bool {
	if h.heap[i].Rank != h.heap[j].Rank {
		return h.heap[i].Rank < h.heap[j].Rank
	}
	return h.heap[i].seq < h.heap[j].seq
}

// heapifyUp keep the heap property: swap with the parent while the parent is bigger. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.heap[index], h.heap[h.parent(index)] = h.heap[h.parent(index)], h.heap[index]

		index = h.parent(index)
	}
}

// heapifyDown keep the heap property: swap with the smallest child while it is smaller. O(logN) tree height.
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)

		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.heap[index], h.heap[smallest] = h.heap[smallest], h.heap[index]
		index = smallest
	}
}

func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

// GetMin get the minimum item (index 0) without popping it
func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrEmptyQueue
	}
	return h.heap[0], nil
}

// Insert new item. O(logN)
func (h *MinHeap[T]) Insert(key PriorityQueueNode[T]) {
	key.seq = h.counter
	h.counter++

	h.heap = append(h.heap, key)
	h.heapifyUp(h.Size() - 1)
}

// ExtractMin pop the minimum item (index 0). O(logN)
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrEmptyQueue
	}
	root := h.heap[0]
	last := h.Size() - 1
	h.heap[0] = h.heap[last]
	h.heap = h.heap[:last]
	if !h.isEmpty() {
		h.heapifyDown(0)
	}

	return root, nil
}

// Clear drop all items and reset the insertion sequence.
func (h *MinHeap[T]) Clear() {
	h.heap = h.heap[:0]
	h.counter = 0
}

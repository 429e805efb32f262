package cache

import (
	"container/heap"
	"time"
)

// heapItem 堆中的条目：域名键与排序时刻
type heapItem struct {
	key string
	at  time.Time
	// index 是条目在堆数组中的当前位置，由 timeHeap 的 Swap 维护
	index int
}

// timeHeap 实现 container/heap.Interface，按时刻升序
type timeHeap []*heapItem

func (h timeHeap) Len() int           { return len(h) }
func (h timeHeap) Less(i, j int) bool { return h[i].at.Before(h[j].at) }

func (h timeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timeHeap) Push(x any) {
	item := x.(*heapItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *timeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return item
}

// keyedHeap 按键寻址的最小堆
// 在普通堆之上维护 key -> 条目 的索引，使按键改优先级和按键删除
// 都是 O(log n)，并保证同一个键只占一个堆位
type keyedHeap struct {
	items timeHeap
	index map[string]*heapItem
}

func newKeyedHeap(capacity int) *keyedHeap {
	return &keyedHeap{
		items: make(timeHeap, 0, capacity),
		index: make(map[string]*heapItem, capacity),
	}
}

func (kh *keyedHeap) len() int { return len(kh.items) }

// push 插入新键；键已存在时退化为 update
func (kh *keyedHeap) push(key string, at time.Time) {
	if item, exists := kh.index[key]; exists {
		item.at = at
		heap.Fix(&kh.items, item.index)
		return
	}
	item := &heapItem{key: key, at: at}
	kh.index[key] = item
	heap.Push(&kh.items, item)
}

// update 修改已有键的时刻；键不存在时什么都不做
func (kh *keyedHeap) update(key string, at time.Time) {
	if item, exists := kh.index[key]; exists {
		item.at = at
		heap.Fix(&kh.items, item.index)
	}
}

// pop 取出时刻最小的键
func (kh *keyedHeap) pop() (string, time.Time, bool) {
	if len(kh.items) == 0 {
		return "", time.Time{}, false
	}
	item := heap.Pop(&kh.items).(*heapItem)
	delete(kh.index, item.key)
	return item.key, item.at, true
}

// remove 按键删除
func (kh *keyedHeap) remove(key string) {
	if item, exists := kh.index[key]; exists {
		heap.Remove(&kh.items, item.index)
		delete(kh.index, key)
	}
}

func (kh *keyedHeap) contains(key string) bool {
	_, exists := kh.index[key]
	return exists
}

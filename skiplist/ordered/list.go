// Package ordered 實作單執行緒的有序 skip list。
// 節點放在 arena 中以 index 互相連結，head 固定在 index 0。
package ordered

import (
	"cmp"

	"go.uber.org/zap"

	"github.com/Hakuto4838/skipmap/skiplist"
)

// List 是 key 唯一的有序 skip list，不支援併發存取
type List[K any, V any] struct {
	maxHeight int
	height    int
	count     int
	less      func(a, b K) bool
	arena     arena[K, V]
	update    []int
	policy    LevelPolicy
	log       *zap.Logger
}

// New 以 K 的自然順序建立 List
func New[K cmp.Ordered, V any](maxHeight int, opts ...Option) *List[K, V] {
	return NewFunc[K, V](maxHeight, cmp.Less[K], opts...)
}

// NewFunc 以 less 作為 strict order 建立 List，相等由 less 推導
func NewFunc[K any, V any](maxHeight int, less func(a, b K) bool, opts ...Option) *List[K, V] {
	if maxHeight < 0 {
		maxHeight = 0
	}
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &List[K, V]{
		maxHeight: maxHeight,
		less:      less,
		arena:     newArena[K, V](maxHeight, cfg.capacity),
		update:    make([]int, maxHeight+1),
		policy:    NewLevelPolicy(maxHeight, cfg.coin),
		log:       cfg.logger,
	}
}

// Less 以建構時的順序比較 a、b
func (sl *List[K, V]) Less(a, b K) bool {
	return sl.less(a, b)
}

func (sl *List[K, V]) equal(a, b K) bool {
	return !sl.less(a, b) && !sl.less(b, a)
}

// findPath 由最高層往下走，把每層最後一個 key < target 的節點記到 update，
// 回傳第 0 層的前一個節點
func (sl *List[K, V]) findPath(key K, update []int) int {
	cur := headIndex
	for h := sl.height; h >= 0; h-- {
		for {
			next := sl.arena.at(cur).forward[h]
			if next == headIndex || !sl.less(sl.arena.at(next).key, key) {
				break
			}
			cur = next
		}
		if update != nil {
			update[h] = cur
		}
	}
	return cur
}

// successor 回傳 prev 在第 0 層的下一個節點是否就是 key
func (sl *List[K, V]) successor(prev int, key K) (int, bool) {
	next := sl.arena.at(prev).forward[0]
	if next == headIndex || !sl.equal(sl.arena.at(next).key, key) {
		return headIndex, false
	}
	return next, true
}

// Search 回傳 key 對應的 value
func (sl *List[K, V]) Search(key K) (V, bool) {
	prev := sl.findPath(key, nil)
	if idx, ok := sl.successor(prev, key); ok {
		nd := sl.arena.at(idx)
		return nd.value, nd.hasValue
	}
	var zero V
	return zero, false
}

// Contains 判斷 key 是否存在
func (sl *List[K, V]) Contains(key K) bool {
	prev := sl.findPath(key, nil)
	_, ok := sl.successor(prev, key)
	return ok
}

// Insert 插入新的 key。key 已存在時不做任何事（保留舊值）並回傳 false
func (sl *List[K, V]) Insert(key K, value V) bool {
	prev := sl.findPath(key, sl.update)
	if _, ok := sl.successor(prev, key); ok {
		return false
	}
	sl.insertAfter(sl.update, key, value)
	return true
}

// Upsert 插入或更新 key。更新時回傳舊值與 true
func (sl *List[K, V]) Upsert(key K, value V) (V, bool) {
	prev := sl.findPath(key, sl.update)
	if idx, ok := sl.successor(prev, key); ok {
		n := Node[K, V]{list: sl, idx: idx}
		old, _ := n.GetValue()
		n.SetValue(value)
		return old, true
	}
	sl.insertAfter(sl.update, key, value)
	var zero V
	return zero, false
}

func (sl *List[K, V]) insertAfter(update []int, key K, value V) {
	lvl := min(sl.policy.RandomLevel(), sl.maxHeight)
	if lvl > sl.height {
		for h := sl.height + 1; h <= lvl; h++ {
			update[h] = headIndex
		}
		sl.log.Debug("skiplist height raised",
			zap.Int("from", sl.height), zap.Int("to", lvl))
		sl.height = lvl
	}

	// alloc 可能讓 slots 重新配置，之後才取指標
	idx := sl.arena.alloc(key, value, lvl)
	for h := 0; h <= lvl; h++ {
		pred := sl.arena.at(update[h])
		sl.arena.at(idx).forward[h] = pred.forward[h]
		pred.forward[h] = idx
	}
	sl.count++
}

// Remove 刪除 key 並交出其 value
func (sl *List[K, V]) Remove(key K) (V, bool) {
	prev := sl.findPath(key, sl.update)
	target, ok := sl.successor(prev, key)
	if !ok {
		var zero V
		return zero, false
	}

	tn := sl.arena.at(target)
	for h := 0; h <= sl.height; h++ {
		pred := sl.arena.at(sl.update[h])
		if pred.forward[h] != target {
			break
		}
		pred.forward[h] = tn.forward[h]
	}

	head := sl.arena.at(headIndex)
	from := sl.height
	for sl.height > 0 && head.forward[sl.height] == headIndex {
		sl.height--
	}
	if sl.height != from {
		sl.log.Debug("skiplist height lowered",
			zap.Int("from", from), zap.Int("to", sl.height))
	}
	sl.count--
	return sl.arena.release(target)
}

// Clear 沿第 0 層逐一釋放所有節點（每個節點恰好一次），回傳釋放數量
func (sl *List[K, V]) Clear() int {
	released := 0
	head := sl.arena.at(headIndex)
	cur := head.forward[0]
	for cur != headIndex {
		next := sl.arena.at(cur).forward[0]
		sl.arena.release(cur)
		released++
		cur = next
	}
	clear(head.forward)
	sl.height = 0
	sl.count = 0
	sl.log.Debug("skiplist cleared", zap.Int("released", released))
	return released
}

// Len 回傳真實節點數量
func (sl *List[K, V]) Len() int {
	return sl.count
}

func (sl *List[K, V]) IsEmpty() bool {
	return sl.count == 0
}

// Height 回傳目前使用中的最高層
func (sl *List[K, V]) Height() int {
	return sl.height
}

func (sl *List[K, V]) MaxHeight() int {
	return sl.maxHeight
}

// Stats 回傳 arena 的配置統計
func (sl *List[K, V]) Stats() ArenaStats {
	return sl.arena.snapshot()
}

// Head 回傳 sentinel head 的 handle
func (sl *List[K, V]) Head() Node[K, V] {
	return Node[K, V]{list: sl, idx: headIndex}
}

// First 回傳最小 key 的節點
func (sl *List[K, V]) First() (Node[K, V], bool) {
	return sl.Head().Next(0)
}

func (sl *List[K, V]) GetHead() skiplist.Nodelike[K, V] {
	return sl.Head()
}

func (sl *List[K, V]) GetMaxStats() (int, int) {
	return sl.count, sl.height
}

package ordered

import "github.com/Hakuto4838/skipmap/skiplist"

// Node 是 arena 中某一格的 handle。
// 下一次 Insert/Remove/Clear 之後 handle 可能指向已重用的格子，不應保留。
type Node[K any, V any] struct {
	list *List[K, V]
	idx  int
}

func (n Node[K, V]) slot() *node[K, V] {
	return n.list.arena.at(n.idx)
}

// IsHead 回報是否為 sentinel head
func (n Node[K, V]) IsHead() bool {
	return n.idx == headIndex
}

// GetKey 回傳 key；head 沒有 key
func (n Node[K, V]) GetKey() (K, bool) {
	if n.IsHead() {
		var zero K
		return zero, false
	}
	nd := n.slot()
	return nd.key, nd.live
}

// GetValue 回傳 value；head 或已被取走時為 false
func (n Node[K, V]) GetValue() (V, bool) {
	nd := n.slot()
	return nd.value, nd.hasValue
}

// SetValue 只替換 value，不動 key 與 forward
func (n Node[K, V]) SetValue(value V) {
	if n.IsHead() {
		return
	}
	nd := n.slot()
	nd.value = value
	nd.hasValue = true
}

func (n Node[K, V]) GetLevel() int {
	return n.slot().height
}

func (n Node[K, V]) GetNextAt(level int) skiplist.Nodelike[K, V] {
	next, ok := n.Next(level)
	if !ok {
		return nil
	}
	return next
}

// Next 回傳第 level 層的下一個節點
func (n Node[K, V]) Next(level int) (Node[K, V], bool) {
	nd := n.slot()
	if level < 0 || level >= len(nd.forward) || nd.forward[level] == headIndex {
		return Node[K, V]{}, false
	}
	return Node[K, V]{list: n.list, idx: nd.forward[level]}, true
}

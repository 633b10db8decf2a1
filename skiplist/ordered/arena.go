package ordered

// headIndex 是 sentinel head 的固定位置；forward 中的 0 同時代表「沒有下一個」
const headIndex = 0

// node 是 arena 中的一格。forward[i] 存第 i 層下一個節點的 index
type node[K any, V any] struct {
	key      K
	value    V
	hasValue bool
	height   int
	forward  []int
	live     bool
}

// ArenaStats 記錄 arena 的配置與釋放次數
type ArenaStats struct {
	Allocated int // 曾配置過的真實節點數
	Released  int // 已釋放的真實節點數
	Live      int // 目前存活的真實節點數
	FreeSlots int // free list 中可重用的格數
}

// arena 擁有所有節點。節點之間只用 index 互相參照，
// 釋放後的格子進 free list，由下一次 alloc 重用。
type arena[K any, V any] struct {
	slots []node[K, V]
	free  []int
	stats ArenaStats
}

func newArena[K any, V any](maxHeight, capacity int) arena[K, V] {
	a := arena[K, V]{
		slots: make([]node[K, V], 1, capacity+1),
	}
	a.slots[headIndex] = node[K, V]{
		height:  maxHeight,
		forward: make([]int, maxHeight+1),
		live:    true,
	}
	return a
}

func (a *arena[K, V]) alloc(key K, value V, height int) int {
	var (
		idx int
		fwd []int
	)
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		// 重用舊的 forward 底層陣列
		if old := a.slots[idx].forward; cap(old) >= height+1 {
			fwd = old[:height+1]
			clear(fwd)
		}
	} else {
		idx = len(a.slots)
		a.slots = append(a.slots, node[K, V]{})
	}
	if fwd == nil {
		fwd = make([]int, height+1)
	}
	a.slots[idx] = node[K, V]{
		key:      key,
		value:    value,
		hasValue: true,
		height:   height,
		forward:  fwd,
		live:     true,
	}
	a.stats.Allocated++
	a.stats.Live++
	return idx
}

// release 取出 value 並把格子還給 free list。同一格只能釋放一次
func (a *arena[K, V]) release(idx int) (V, bool) {
	var zero V
	nd := &a.slots[idx]
	if idx == headIndex || !nd.live {
		panic("ordered: release of head or already released node")
	}
	v, ok := nd.value, nd.hasValue
	var zk K
	nd.key = zk
	nd.value = zero
	nd.hasValue = false
	nd.live = false
	clear(nd.forward)
	a.free = append(a.free, idx)
	a.stats.Released++
	a.stats.Live--
	return v, ok
}

func (a *arena[K, V]) at(idx int) *node[K, V] {
	return &a.slots[idx]
}

func (a *arena[K, V]) snapshot() ArenaStats {
	s := a.stats
	s.FreeSlots = len(a.free)
	return s
}

package ordered

import (
	"bufio"
	"fmt"
	"io"
)

// Entry 是一組 key/value
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// Level 是某一層由 head 出發走得到的所有節點
type Level[K any, V any] struct {
	Index   int
	Entries []Entry[K, V]
}

// Levels 回傳第 0 層到目前高度每一層的內容
func (sl *List[K, V]) Levels() []Level[K, V] {
	out := make([]Level[K, V], sl.height+1)
	for h := 0; h <= sl.height; h++ {
		out[h].Index = h
		cur := sl.arena.at(headIndex).forward[h]
		for cur != headIndex {
			nd := sl.arena.at(cur)
			out[h].Entries = append(out[h].Entries, Entry[K, V]{Key: nd.key, Value: nd.value})
			cur = nd.forward[h]
		}
	}
	return out
}

// Dump 以「Level i: k:v k:v」的格式輸出每一層
func (sl *List[K, V]) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, lv := range sl.Levels() {
		fmt.Fprintf(bw, "Level %d:", lv.Index)
		for _, e := range lv.Entries {
			fmt.Fprintf(bw, " %v:%v", e.Key, e.Value)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

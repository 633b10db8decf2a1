package skiplist

// Container 是有序 key/value 容器的公開操作
type Container[K any, V any] interface {
	Insert(key K, value V) bool
	Search(key K) (V, bool)
	Remove(key K) (V, bool)
	Contains(key K) bool
	Len() int
	IsEmpty() bool
}

// Analyable 提供分析功能的介面
type Analyable[K any, V any] interface {
	Container[K, V]
	// GetMaxStats 獲取節點數和目前最高層級
	GetMaxStats() (maxNodes int, maxLevel int)
	// MaxHeight 建構時設定的層級上限
	MaxHeight() int
	// Less 是容器使用的 strict order，相等由 Less 推導
	Less(a, b K) bool
	GetHead() Nodelike[K, V]
}

// Nodelike 唯讀的節點視圖；head 沒有 key/value
type Nodelike[K any, V any] interface {
	GetKey() (K, bool)
	GetValue() (V, bool)
	GetLevel() int
	GetNextAt(level int) Nodelike[K, V]
	IsHead() bool
}

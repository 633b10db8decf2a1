package datastream

// KeySource 產生 key 序列並提供其機率分布
type KeySource interface {
	Next() int64
	Dist() map[int64]float64
	Entropy() float64
}

// OperationType 表示操作種類
type OperationType uint8

const (
	OpQuery OperationType = iota
	OpInsert
	OpDelete
)

func (t OperationType) String() string {
	switch t {
	case OpQuery:
		return "Query"
	case OpInsert:
		return "Insert"
	case OpDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Operation 表示一筆操作
type Operation struct {
	Type OperationType
	Key  int64
}

// SequenceModel 以游標重播一份操作序列，Reset 後可重複使用
type SequenceModel struct {
	ops []Operation
	pos int
}

// NewSequenceModel 複製 ops 建立模型，之後修改 ops 不影響重播
func NewSequenceModel(ops []Operation) *SequenceModel {
	return &SequenceModel{ops: append([]Operation(nil), ops...)}
}

// Next 回傳下一筆操作；序列結束時回傳 false
func (m *SequenceModel) Next() (Operation, bool) {
	if m.pos >= len(m.ops) {
		return Operation{}, false
	}
	op := m.ops[m.pos]
	m.pos++
	return op, true
}

func (m *SequenceModel) Len() int       { return len(m.ops) }
func (m *SequenceModel) Remaining() int { return len(m.ops) - m.pos }
func (m *SequenceModel) Reset()         { m.pos = 0 }

// Counts 依操作種類統計整份序列
func (m *SequenceModel) Counts() map[OperationType]int {
	out := make(map[OperationType]int, 3)
	for _, op := range m.ops {
		out[op.Type]++
	}
	return out
}

package datastream

import "fmt"

// GenerateOps 以 g 產生 k 筆操作。
// 規則：
//   - 第一階段（k*phase1Ratio 筆）先保證每個 key 至少出現一次，其餘以分布補齊後洗牌
//   - 第二階段依分布抽 key
//   - key 不在表中時一律 Insert；在表中時以 deleteRatio 機率 Delete，否則 Query
func GenerateOps(g *Generator, k int, phase1Ratio, deleteRatio float64) ([]Operation, error) {
	n := g.n
	phase1Size := int(float64(k) * phase1Ratio)
	if k < n {
		return nil, fmt.Errorf("%w: k (%d) must be >= n (%d)", ErrInvalidParams, k, n)
	}
	if phase1Size < n || phase1Size > k {
		return nil, fmt.Errorf("%w: phase1Size (%d) must satisfy n <= phase1Size <= k", ErrInvalidParams, phase1Size)
	}
	if deleteRatio < 0.0 || deleteRatio > 1.0 {
		return nil, fmt.Errorf("%w: deleteRatio (%v) must be between 0.0 and 1.0", ErrInvalidParams, deleteRatio)
	}

	phase1 := make([]int64, phase1Size)
	copy(phase1, g.rankToKey)
	for i := n; i < phase1Size; i++ {
		phase1[i] = g.Next()
	}
	g.r.Shuffle(len(phase1), func(i, j int) { phase1[i], phase1[j] = phase1[j], phase1[i] })

	ops := make([]Operation, 0, k)
	present := make(map[int64]bool, n)
	emit := func(key int64) {
		op := OpInsert
		if present[key] {
			if g.r.Float64() < deleteRatio {
				op = OpDelete
				present[key] = false
			} else {
				op = OpQuery
			}
		} else {
			present[key] = true
		}
		ops = append(ops, Operation{Type: op, Key: key})
	}

	for _, key := range phase1 {
		emit(key)
	}
	for i := phase1Size; i < k; i++ {
		emit(g.Next())
	}
	return ops, nil
}

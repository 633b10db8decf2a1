package datastream

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/twmb/murmur3"
)

// KeyMode 決定 rank 如何對應到 key
type KeyMode uint8

const (
	// KeysShuffled 使用 0..n-1 並隨機洗牌
	KeysShuffled KeyMode = iota
	// KeysHashed 以 murmur3(seed, rank) 產生分散的 63-bit key
	KeysHashed
)

// GeneratorConfig 是 key 產生器的參數
//   - N: key 數量
//   - S, V: Zipf 參數。S = 0 時使用均勻分布；否則需 S > 1、V >= 1
type GeneratorConfig struct {
	N    int
	S    float64
	V    float64
	Seed uint64
	Mode KeyMode
}

// Generator 依 Zipf 或均勻分布產生 key，rank 越小越常出現
type Generator struct {
	n         int
	rankToKey []int64
	weights   []float64 // 依 rank 排列的機率
	zipf      *rand.Zipf
	r         *rand.Rand
}

func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.N <= 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidParams, cfg.N)
	}
	if cfg.S != 0 && (cfg.S <= 1.0 || cfg.V < 1.0) {
		return nil, fmt.Errorf("%w: zipf s=%v must >1, v=%v must >=1", ErrInvalidParams, cfg.S, cfg.V)
	}

	r := rand.New(rand.NewPCG(cfg.Seed, 0))
	g := &Generator{
		n:       cfg.N,
		weights: make([]float64, cfg.N),
		r:       r,
	}

	switch cfg.Mode {
	case KeysHashed:
		g.rankToKey = hashedKeys(cfg.N, cfg.Seed)
	default:
		g.rankToKey = make([]int64, cfg.N)
		for i := range g.rankToKey {
			g.rankToKey[i] = int64(i)
		}
		r.Shuffle(len(g.rankToKey), func(i, j int) {
			g.rankToKey[i], g.rankToKey[j] = g.rankToKey[j], g.rankToKey[i]
		})
	}

	// 理論機率並正規化
	if cfg.S == 0 {
		for i := range g.weights {
			g.weights[i] = 1.0 / float64(cfg.N)
		}
	} else {
		var sum float64
		for i := range g.weights {
			g.weights[i] = 1.0 / math.Pow(cfg.V+float64(i), cfg.S)
			sum += g.weights[i]
		}
		for i := range g.weights {
			g.weights[i] /= sum
		}
		g.zipf = rand.NewZipf(r, cfg.S, cfg.V, uint64(cfg.N-1))
	}
	return g, nil
}

// hashedKeys 產生 n 個不重複的 key；碰撞時換下一個 seed 重算
func hashedKeys(n int, seed uint64) []int64 {
	keys := make([]int64, n)
	seen := make(map[int64]struct{}, n)
	var buf [8]byte
	for rank := 0; rank < n; rank++ {
		binary.LittleEndian.PutUint64(buf[:], uint64(rank))
		for s := seed; ; s++ {
			k := int64(murmur3.SeedSum64(s, buf[:]) >> 1)
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				keys[rank] = k
				break
			}
		}
	}
	return keys
}

// Rank 回傳下一個 rank (0..n-1)
func (g *Generator) Rank() int {
	if g.zipf == nil {
		return g.r.IntN(g.n)
	}
	return int(g.zipf.Uint64())
}

// Next 產生下一個 key
func (g *Generator) Next() int64 {
	return g.rankToKey[g.Rank()]
}

// Keys 依 rank 回傳所有 key
func (g *Generator) Keys() []int64 {
	out := make([]int64, g.n)
	copy(out, g.rankToKey)
	return out
}

// Dist 回傳 key -> 機率
func (g *Generator) Dist() map[int64]float64 {
	out := make(map[int64]float64, g.n)
	for rank, k := range g.rankToKey {
		out[k] = g.weights[rank]
	}
	return out
}

func (g *Generator) Entropy() float64 {
	return EntropyFromDist(g.Dist())
}

// EntropyFromDist 計算分布的熵（單位：bit），忽略 <= 0 的值
func EntropyFromDist(dist map[int64]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

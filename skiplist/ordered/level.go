package ordered

import (
	"math/rand/v2"
	"time"
)

// Coin 是層級策略的亂數來源，每次 Flip 應獨立且 true/false 各半
type Coin interface {
	Flip() bool
}

// CoinFunc 讓一般函式也能當作 Coin
type CoinFunc func() bool

func (f CoinFunc) Flip() bool { return f() }

type randCoin struct {
	r *rand.Rand
}

// NewRandCoin 以 seed 建立 PCG 亂數硬幣
func NewRandCoin(seed uint64) Coin {
	return &randCoin{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (c *randCoin) Flip() bool {
	return c.r.Uint64()&1 == 1
}

func defaultCoin() Coin {
	return NewRandCoin(uint64(time.Now().UnixNano()))
}

// LevelPolicy 決定新節點的高度
type LevelPolicy struct {
	maxHeight int
	coin      Coin
}

func NewLevelPolicy(maxHeight int, coin Coin) LevelPolicy {
	if maxHeight < 0 {
		maxHeight = 0
	}
	if coin == nil {
		coin = defaultCoin()
	}
	return LevelPolicy{maxHeight: maxHeight, coin: coin}
}

// RandomLevel 回傳 [1, maxHeight] 的高度：從 1 開始，每次以 1/2 機率加一，
// 遇到反面或到達上限就停。maxHeight 為 0 時固定回傳 0。
func (p LevelPolicy) RandomLevel() int {
	if p.maxHeight == 0 {
		return 0
	}
	lvl := 1
	for lvl < p.maxHeight && p.coin.Flip() {
		lvl++
	}
	return lvl
}

func (p LevelPolicy) MaxHeight() int {
	return p.maxHeight
}

package ordered

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomLevelCeiling(t *testing.T) {
	heads := CoinFunc(func() bool { return true })
	for _, maxH := range []int{1, 2, 6, 32} {
		p := NewLevelPolicy(maxH, heads)
		assert.Equal(t, maxH, p.RandomLevel(), "max=%d", maxH)
	}
}

func TestRandomLevelZeroMax(t *testing.T) {
	p := NewLevelPolicy(0, CoinFunc(func() bool { return true }))
	assert.Equal(t, 0, p.RandomLevel())

	p = NewLevelPolicy(-1, nil)
	assert.Equal(t, 0, p.MaxHeight())
	assert.Equal(t, 0, p.RandomLevel())
}

func TestRandomLevelSequence(t *testing.T) {
	coin := &seqCoin{flips: []bool{true, true, false, false, true, false}}
	p := NewLevelPolicy(8, coin)
	assert.Equal(t, 3, p.RandomLevel())
	assert.Equal(t, 1, p.RandomLevel())
	assert.Equal(t, 2, p.RandomLevel())
}

func TestRandomLevelDistribution(t *testing.T) {
	const (
		draws = 200000
		maxH  = 16
	)
	p := NewLevelPolicy(maxH, NewRandCoin(42))
	counts := make([]int, maxH+1)
	for i := 0; i < draws; i++ {
		lvl := p.RandomLevel()
		require.GreaterOrEqual(t, lvl, 1)
		require.LessOrEqual(t, lvl, maxH)
		counts[lvl]++
	}
	assert.Zero(t, counts[0])

	// 每多一層機率減半
	want := 0.5
	for lvl := 1; lvl <= 4; lvl++ {
		got := float64(counts[lvl]) / draws
		assert.InDelta(t, want, got, 0.01, "level %d", lvl)
		want /= 2
	}
}

func TestRandCoinIsDeterministicPerSeed(t *testing.T) {
	a, b := NewRandCoin(99), NewRandCoin(99)
	for i := 0; i < 64; i++ {
		require.Equal(t, a.Flip(), b.Flip())
	}
}

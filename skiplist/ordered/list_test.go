package ordered

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/skipmap/skiplist"
)

// seqCoin 依序回傳固定的結果，用完後一律回傳 false
type seqCoin struct {
	flips []bool
	pos   int
}

func (c *seqCoin) Flip() bool {
	if c.pos >= len(c.flips) {
		return false
	}
	f := c.flips[c.pos]
	c.pos++
	return f
}

var tails = CoinFunc(func() bool { return false })

func TestListInterface(t *testing.T) {
	var _ skiplist.Container[int, string] = (*List[int, string])(nil)
	var _ skiplist.Analyable[int, string] = (*List[int, string])(nil)
	var _ skiplist.Nodelike[int, string] = Node[int, string]{}
}

func TestInsertRemoveScenario(t *testing.T) {
	sl := New[int, string](6, WithSeed(42))
	require.True(t, sl.IsEmpty())

	sl.Insert(6, "111")
	sl.Insert(7, "222")

	v, ok := sl.Remove(7)
	require.True(t, ok)
	assert.Equal(t, "222", v)

	_, ok = sl.Search(7)
	assert.False(t, ok)

	v, ok = sl.Search(6)
	require.True(t, ok)
	assert.Equal(t, "111", v)
	assert.Equal(t, 1, sl.Len())
	assert.False(t, sl.IsEmpty())
}

func TestDuplicateInsertKeepsFirstValue(t *testing.T) {
	sl := New[int, string](6, WithSeed(1))

	assert.True(t, sl.Insert(5, "a"))
	assert.False(t, sl.Insert(5, "b"))

	v, ok := sl.Search(5)
	require.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, 1, sl.Len())
	assert.Equal(t, 1, sl.Stats().Allocated)
}

func TestRemoveOnEmpty(t *testing.T) {
	sl := New[int, string](6)
	for _, k := range []int{-1, 0, 1, 100} {
		v, ok := sl.Remove(k)
		assert.False(t, ok)
		assert.Equal(t, "", v)
	}
	assert.Equal(t, 0, sl.Len())
	assert.Equal(t, 0, sl.Height())
	assert.Equal(t, ArenaStats{}, sl.Stats())
}

func TestRemoveMissingKeyLeavesList(t *testing.T) {
	sl := New[int, int](8, WithSeed(3))
	for i := 0; i < 20; i += 2 {
		sl.Insert(i, i*10)
	}
	before := sl.Levels()

	for i := 1; i < 20; i += 2 {
		_, ok := sl.Remove(i)
		assert.False(t, ok, "key %d", i)
	}
	if diff := cmp.Diff(before, sl.Levels()); diff != "" {
		t.Fatalf("levels changed after missing removes (-before +after):\n%s", diff)
	}
	assert.Equal(t, 10, sl.Len())
}

func TestUpsert(t *testing.T) {
	sl := New[string, int](4, WithSeed(7))

	_, replaced := sl.Upsert("a", 1)
	assert.False(t, replaced)

	old, replaced := sl.Upsert("a", 2)
	assert.True(t, replaced)
	assert.Equal(t, 1, old)

	v, _ := sl.Search("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, sl.Len())
}

func TestDumpLevels(t *testing.T) {
	sl := New[int, string](6, WithCoin(tails))
	sl.Insert(7, "222")
	sl.Insert(6, "111")

	var sb strings.Builder
	require.NoError(t, sl.Dump(&sb))
	assert.Equal(t, "Level 0: 6:111 7:222\nLevel 1: 6:111 7:222\n", sb.String())

	sl.Remove(7)
	want := []Level[int, string]{
		{Index: 0, Entries: []Entry[int, string]{{Key: 6, Value: "111"}}},
		{Index: 1, Entries: []Entry[int, string]{{Key: 6, Value: "111"}}},
	}
	if diff := cmp.Diff(want, sl.Levels()); diff != "" {
		t.Fatalf("Levels() mismatch (-want +got):\n%s", diff)
	}
}

func TestHeightFollowsTallestNode(t *testing.T) {
	// 1 -> 高度 4（上限），2 -> 高度 2
	coin := &seqCoin{flips: []bool{true, true, true, true, false}}
	sl := New[int, int](4, WithCoin(coin))

	sl.Insert(1, 1)
	assert.Equal(t, 4, sl.Height())
	sl.Insert(2, 2)
	assert.Equal(t, 4, sl.Height())

	sl.Remove(1)
	assert.Equal(t, 2, sl.Height(), "height should shrink to the tallest remaining node")
	sl.Remove(2)
	assert.Equal(t, 0, sl.Height())
	assert.True(t, sl.IsEmpty())
}

func TestZeroMaxHeightIsPlainList(t *testing.T) {
	sl := New[int, int](0, WithSeed(9))
	for _, k := range []int{5, 3, 9, 1, 7} {
		sl.Insert(k, k*k)
	}
	assert.Equal(t, 0, sl.Height())

	lv := sl.Levels()
	require.Len(t, lv, 1)
	var keys []int
	for _, e := range lv[0].Entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []int{1, 3, 5, 7, 9}, keys)

	v, ok := sl.Remove(5)
	require.True(t, ok)
	assert.Equal(t, 25, v)
	_, ok = sl.Search(5)
	assert.False(t, ok)
	assert.Equal(t, 4, sl.Len())
}

func TestNegativeMaxHeightClamped(t *testing.T) {
	sl := New[int, int](-3)
	assert.Equal(t, 0, sl.MaxHeight())
	sl.Insert(1, 1)
	v, ok := sl.Search(1)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestNodeAccessors(t *testing.T) {
	sl := New[int, string](3, WithCoin(tails))
	sl.Insert(2, "two")
	sl.Insert(1, "one")

	head := sl.Head()
	assert.True(t, head.IsHead())
	_, ok := head.GetKey()
	assert.False(t, ok)
	_, ok = head.GetValue()
	assert.False(t, ok)
	assert.Equal(t, 3, head.GetLevel())

	first, ok := sl.First()
	require.True(t, ok)
	assert.False(t, first.IsHead())
	k, _ := first.GetKey()
	assert.Equal(t, 1, k)
	assert.Equal(t, 1, first.GetLevel())

	first.SetValue("uno")
	v, _ := sl.Search(1)
	assert.Equal(t, "uno", v)

	second, ok := first.Next(0)
	require.True(t, ok)
	k, _ = second.GetKey()
	assert.Equal(t, 2, k)

	_, ok = second.Next(0)
	assert.False(t, ok)
	assert.Nil(t, second.GetNextAt(0))
	assert.Nil(t, second.GetNextAt(5))
}

func TestNewFuncDescending(t *testing.T) {
	sl := NewFunc[string, int](5, func(a, b string) bool { return a > b }, WithSeed(11))
	for i, k := range []string{"b", "d", "a", "c"} {
		sl.Insert(k, i)
	}
	var got []string
	for n, ok := sl.First(); ok; n, ok = n.Next(0) {
		k, _ := n.GetKey()
		got = append(got, k)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, got)
	assert.True(t, sl.Contains("c"))
	assert.False(t, sl.Contains("e"))
}

func TestClearReleasesEveryNode(t *testing.T) {
	const n = 500
	sl := New[int, int](12, WithSeed(5), WithCapacity(n))
	for i := 0; i < n; i++ {
		sl.Insert(i, i)
	}
	require.Equal(t, n, sl.Stats().Live)

	released := sl.Clear()
	assert.Equal(t, n, released)

	st := sl.Stats()
	assert.Equal(t, n, st.Allocated)
	assert.Equal(t, n, st.Released)
	assert.Equal(t, 0, st.Live)
	assert.Equal(t, n, st.FreeSlots)
	assert.True(t, sl.IsEmpty())
	assert.Equal(t, 0, sl.Height())

	// 清空後重新插入會重用 free list
	for i := 0; i < 10; i++ {
		sl.Insert(i, -i)
	}
	st = sl.Stats()
	assert.Equal(t, n-10, st.FreeSlots)
	assert.Equal(t, 10, st.Live)
	v, ok := sl.Search(9)
	require.True(t, ok)
	assert.Equal(t, -9, v)
}

func TestRemoveReleasesExactlyOne(t *testing.T) {
	sl := New[int, int](8, WithSeed(21))
	for i := 0; i < 50; i++ {
		sl.Insert(i, i)
	}
	for i := 0; i < 50; i += 5 {
		before := sl.Stats()
		_, ok := sl.Remove(i)
		require.True(t, ok)
		after := sl.Stats()
		assert.Equal(t, before.Released+1, after.Released)
		assert.Equal(t, before.Live-1, after.Live)
	}
	assert.Equal(t, 40, sl.Len())
	assert.Equal(t, 40, sl.Clear())
	assert.Equal(t, sl.Stats().Allocated, sl.Stats().Released)
}

// checkInvariants 驗證每層遞增、上層為下層子序列、高度上限與數量
func checkInvariants(t *testing.T, sl *List[int, int]) {
	t.Helper()
	levels := sl.Levels()
	require.Len(t, levels, sl.Height()+1)
	require.LessOrEqual(t, sl.Height(), sl.MaxHeight())
	require.Len(t, levels[0].Entries, sl.Len())

	for h, lv := range levels {
		for i := 1; i < len(lv.Entries); i++ {
			require.Less(t, lv.Entries[i-1].Key, lv.Entries[i].Key, "level %d not increasing", h)
		}
		if h == 0 {
			continue
		}
		lower := levels[h-1].Entries
		j := 0
		for _, e := range lv.Entries {
			for j < len(lower) && lower[j].Key != e.Key {
				j++
			}
			require.Less(t, j, len(lower), "level %d key %d missing below", h, e.Key)
		}
	}
	for n, ok := sl.First(); ok; n, ok = n.Next(0) {
		require.LessOrEqual(t, n.GetLevel(), sl.MaxHeight())
	}
	if sl.Height() > 0 {
		require.NotEmpty(t, levels[sl.Height()].Entries, "top level must not be empty")
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	r := rand.New(rand.NewPCG(2024, 1))
	sl := New[int, int](10, WithSeed(2024))
	model := map[int]int{}

	for i := 0; i < 5000; i++ {
		k := r.IntN(800)
		switch r.IntN(3) {
		case 0, 1:
			v := r.IntN(1 << 20)
			inserted := sl.Insert(k, v)
			_, existed := model[k]
			assert.Equal(t, !existed, inserted)
			if !existed {
				model[k] = v
			}
		case 2:
			v, ok := sl.Remove(k)
			mv, existed := model[k]
			assert.Equal(t, existed, ok)
			if existed {
				assert.Equal(t, mv, v)
				delete(model, k)
			}
		}
		if i%500 == 0 {
			checkInvariants(t, sl)
		}
	}
	checkInvariants(t, sl)
	require.Equal(t, len(model), sl.Len())
	for k, v := range model {
		got, ok := sl.Search(k)
		require.True(t, ok, "key %d", k)
		require.Equal(t, v, got)
	}

	st := sl.Stats()
	assert.Equal(t, len(model), st.Live)
	assert.Equal(t, st.Allocated-st.Released, st.Live)
	assert.Equal(t, len(model), sl.Clear())
}

func BenchmarkInsert(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 2))
	sl := New[int64, int64](16, WithSeed(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sl.Insert(r.Int64(), int64(i))
	}
}

func BenchmarkSearch(b *testing.B) {
	const n = 1 << 16
	sl := New[int64, int64](16, WithSeed(1), WithCapacity(n))
	for i := int64(0); i < n; i++ {
		sl.Insert(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sl.Search(int64(i) & (n - 1))
	}
}

package analyTool

import (
	"cmp"
	"fmt"
	"io"
	"sort"

	"github.com/Hakuto4838/skipmap/skiplist"
)

type StepMap[K cmp.Ordered] map[K]int

// FindStep 計算找到指定 key 的總步數和各層步數，依 sl.Less 比較 key
func FindStep[K any, V any](sl skiplist.Analyable[K, V], key K) (step int, level []int) {
	cur := sl.GetHead()
	if cur == nil {
		return 0, []int{}
	}

	totalSteps := 0
	_, maxLevel := sl.GetMaxStats()
	stepsPerLevel := make([]int, maxLevel+1)

	// 從最高層開始搜尋
	for h := maxLevel; h >= 0; h-- {
		levelSteps := 0

		// 在當前層級水平移動
		for {
			next := cur.GetNextAt(h)
			if next == nil {
				break
			}
			if k, _ := next.GetKey(); !sl.Less(k, key) {
				break
			}
			cur = next
			levelSteps++
		}

		// 找到目標 key 時加上最後一步並返回
		if next := cur.GetNextAt(h); next != nil {
			if k, _ := next.GetKey(); !sl.Less(k, key) && !sl.Less(key, k) {
				levelSteps++
				stepsPerLevel[h] = levelSteps
				totalSteps += levelSteps
				return totalSteps, stepsPerLevel
			}
		}

		stepsPerLevel[h] = levelSteps
		totalSteps += levelSteps + 1 // 加上向下移動
	}

	return totalSteps, stepsPerLevel
}

// AnalyzeStep 根據 key 出現機率計算平均搜尋步數
func AnalyzeStep[K cmp.Ordered, V any](sl skiplist.Analyable[K, V], keys map[K]float64) (float64, StepMap[K]) {
	if len(keys) == 0 {
		return 0.0, nil
	}

	step := StepMap[K]{}
	var totalExpectedSteps float64
	var totalProbability float64

	// 每個節點在自己的最高層第一次被走到時記錄步數
	var dfs func(node skiplist.Nodelike[K, V], level int, steps int)
	dfs = func(node skiplist.Nodelike[K, V], level int, steps int) {
		if node == nil {
			return
		}
		if !node.IsHead() && node.GetLevel() == level {
			k, _ := node.GetKey()
			if p, ok := keys[k]; ok {
				totalExpectedSteps += float64(steps) * p
				totalProbability += p
				step[k] = steps
			}
		}
		if level > 0 { // 下降也算一步
			dfs(node, level-1, steps+1)
		}
		next := node.GetNextAt(level)
		if next != nil && next.GetLevel() == level {
			// 較高的節點會從上層走到，不屬於本次走訪
			dfs(next, level, steps+1)
		}
	}

	_, maxLevel := sl.GetMaxStats()
	if head := sl.GetHead(); head != nil {
		dfs(head, maxLevel, 0)
	}

	if totalProbability > 0 {
		return totalExpectedSteps / totalProbability, step
	}
	return 0.0, step
}

// PrintSkipList 以欄位對齊的方式印出 skip list 結構
func PrintSkipList[K cmp.Ordered, V any](w io.Writer, sl skiplist.Analyable[K, V], maxLevel, maxNodes int) {
	_, actualMaxLevel := sl.GetMaxStats()
	maxLevel = min(maxLevel, actualMaxLevel)
	output := make([]string, maxLevel+1)

	for i := maxLevel; i >= 0; i-- {
		output[i] = fmt.Sprintf("level %d : head ->", i)
	}

	node := sl.GetHead()
	if node == nil || node.GetNextAt(0) == nil {
		fmt.Fprintln(w, "Skip list 為空")
		return
	}
	node = node.GetNextAt(0)

	for count := 0; node != nil && count < maxNodes; count++ {
		k, _ := node.GetKey()
		cell := fmt.Sprintf("%v", k)
		blank := fmt.Sprintf("%*s", len(cell), "")
		lv := node.GetLevel()
		for i := range output {
			if i <= lv {
				output[i] += fmt.Sprintf(" %3s ->", cell)
			} else {
				output[i] += fmt.Sprintf(" %3s ->", blank)
			}
		}
		node = node.GetNextAt(0)
	}

	for i := maxLevel; i >= 0; i-- {
		fmt.Fprintln(w, output[i])
	}
}

// PrintLink 逐層沿 forward 連結印出 key
func PrintLink[K cmp.Ordered, V any](w io.Writer, sl skiplist.Analyable[K, V], maxLevel, maxNodes int) {
	head := sl.GetHead()
	if head == nil {
		fmt.Fprintln(w, "Skip list 為空")
		return
	}
	_, actual := sl.GetMaxStats()
	maxLevel = min(maxLevel, actual)

	for i := maxLevel; i >= 0; i-- {
		fmt.Fprintf(w, "level %d : head", i)
		node := head.GetNextAt(i)
		for count := 0; node != nil && count < maxNodes; count++ {
			k, _ := node.GetKey()
			fmt.Fprintf(w, " -> %v", k)
			node = node.GetNextAt(i)
		}
		fmt.Fprintln(w)
	}
}

// CheckStruct 檢查 skip list 的結構：
// 每層 key 依 sl.Less 嚴格遞增、上層是下層的子序列、節點高度不超過上限、節點數一致
func CheckStruct[K any, V any](sl skiplist.Analyable[K, V]) error {
	size, maxLevel := sl.GetMaxStats()
	if maxLevel > sl.MaxHeight() {
		return fmt.Errorf("current level %d exceeds max height %d", maxLevel, sl.MaxHeight())
	}

	head := sl.GetHead()
	if head == nil {
		return nil
	}

	// list[i] 是第 i 層最後一個走到的節點
	list := make([]skiplist.Nodelike[K, V], maxLevel+1)
	for i := range list {
		list[i] = head
	}

	count := 0
	var prev *K
	for node := head.GetNextAt(0); node != nil; node = node.GetNextAt(0) {
		k, ok := node.GetKey()
		if !ok {
			return fmt.Errorf("node #%d has no key", count)
		}
		if prev != nil && !sl.Less(*prev, k) {
			return fmt.Errorf("level 0 not increasing: %v then %v", *prev, k)
		}
		prev = &k

		nodelv := node.GetLevel()
		if nodelv > sl.MaxHeight() {
			return fmt.Errorf("node %v level %d exceeds max height %d", k, nodelv, sl.MaxHeight())
		}
		if nodelv > maxLevel {
			return fmt.Errorf("node %v level %d above current level %d", k, nodelv, maxLevel)
		}
		for i := 1; i <= nodelv; i++ {
			nextAtLevel := list[i].GetNextAt(i)
			if nextAtLevel == nil {
				return fmt.Errorf("level %d skips node %v", i, k)
			}
			if nk, _ := nextAtLevel.GetKey(); sl.Less(nk, k) || sl.Less(k, nk) {
				return fmt.Errorf("level %d links to %v, expected %v", i, nk, k)
			}
			list[i] = nextAtLevel
		}
		count++
	}

	// 每層最後一個節點之後不應再有節點
	for i := 1; i <= maxLevel; i++ {
		if next := list[i].GetNextAt(i); next != nil {
			nk, _ := next.GetKey()
			return fmt.Errorf("level %d has node %v not present below", i, nk)
		}
	}
	if maxLevel > 0 && head.GetNextAt(maxLevel) == nil {
		return fmt.Errorf("top level %d is empty", maxLevel)
	}
	if count != size {
		return fmt.Errorf("level 0 holds %d nodes, size reports %d", count, size)
	}
	return nil
}

// CountLevel 計算每層的節點數量
func CountLevel[K cmp.Ordered, V any](sl skiplist.Analyable[K, V]) []int {
	_, maxLevel := sl.GetMaxStats()
	levelCounts := make([]int, maxLevel+1)

	head := sl.GetHead()
	if head == nil {
		return levelCounts
	}
	// 從第一個實際節點開始（跳過 head）
	for cur := head.GetNextAt(0); cur != nil; cur = cur.GetNextAt(0) {
		for i := 0; i <= cur.GetLevel() && i < len(levelCounts); i++ {
			levelCounts[i]++
		}
	}
	return levelCounts
}

// Print 依 K 的自然順序（不是容器的 Less）排序輸出步數
func (mp StepMap[K]) Print(w io.Writer) {
	keys := make([]K, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		fmt.Fprintf(w, "%2v  ", k)
	}
	fmt.Fprintln(w)
	for _, k := range keys {
		fmt.Fprintf(w, "%2d  ", mp[k])
	}
	fmt.Fprintln(w)
}

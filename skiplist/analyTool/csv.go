package analyTool

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/Hakuto4838/skipmap/skiplist"
)

// WriteSkipListCSV 將 skip list 的結構輸出到 CSV：
// 每層一列，第一欄為 "level i"，之後依第 0 層順序列出前 maxNodes 個節點，
// 節點高度不到該層時留空
func WriteSkipListCSV[K any, V any](writer *csv.Writer, sl skiplist.Analyable[K, V], maxLevel, maxNodes int) error {
	_, actualMaxLevel := sl.GetMaxStats()
	maxLevel = min(maxLevel, actualMaxLevel)
	rows := make([][]string, maxLevel+1)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("level %d", i)}
	}

	if head := sl.GetHead(); head != nil {
		node := head.GetNextAt(0)
		for count := 0; node != nil && count < maxNodes; count++ {
			k, _ := node.GetKey()
			cell := fmt.Sprintf("%v", k)
			lv := node.GetLevel()
			for i := range rows {
				if i <= lv {
					rows[i] = append(rows[i], cell)
				} else {
					rows[i] = append(rows[i], "")
				}
			}
			node = node.GetNextAt(0)
		}
	}

	for i := maxLevel; i >= 0; i-- {
		if err := writer.Write(rows[i]); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSV 輸出兩列：依 key 排序的 key，以及對應的步數
func (mp StepMap[K]) WriteCSV(writer *csv.Writer) error {
	keys := make([]K, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return cmp.Less(keys[i], keys[j]) })

	keyRow := make([]string, 0, len(keys)+1)
	stepRow := make([]string, 0, len(keys)+1)
	keyRow = append(keyRow, "key")
	stepRow = append(stepRow, "steps")
	for _, k := range keys {
		keyRow = append(keyRow, fmt.Sprintf("%v", k))
		stepRow = append(stepRow, fmt.Sprintf("%d", mp[k]))
	}
	if err := writer.WriteAll([][]string{keyRow, stepRow}); err != nil {
		return err
	}
	return writer.Error()
}

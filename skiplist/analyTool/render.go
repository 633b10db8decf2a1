package analyTool

import (
	"cmp"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/Hakuto4838/skipmap/skiplist"
)

// RenderLevels 以表格輸出每層節點數、佔比與前 maxKeys 個 key
func RenderLevels[K cmp.Ordered, V any](w io.Writer, sl skiplist.Analyable[K, V], maxKeys int) {
	size, maxLevel := sl.GetMaxStats()
	counts := CountLevel(sl)

	rows := make([][]string, 0, maxLevel+1)
	for h := maxLevel; h >= 0; h-- {
		var keys []string
		node := sl.GetHead().GetNextAt(h)
		for ; node != nil && len(keys) < maxKeys; node = node.GetNextAt(h) {
			k, _ := node.GetKey()
			keys = append(keys, fmt.Sprintf("%v", k))
		}
		if node != nil {
			keys = append(keys, "...")
		}
		ratio := "-"
		if size > 0 {
			ratio = fmt.Sprintf("%.4f", float64(counts[h])/float64(size))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", h),
			fmt.Sprintf("%d", counts[h]),
			ratio,
			strings.Join(keys, " "),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Level", "Nodes", "Ratio", "Keys"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.SetFooter([]string{"", fmt.Sprintf("%d", size), "", fmt.Sprintf("max height %d", sl.MaxHeight())})
	table.Render()
}

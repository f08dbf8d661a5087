package scores

// SortKey 排行榜排序字段
type SortKey string

const (
	ByScore  SortKey = "score"
	ByHeight SortKey = "height"
)

// 展示前 10 名，分左右两列各 5 条
const (
	boardSize  = 10
	columnSize = 5
)

// Board 排行榜视图
type Board struct {
	SortBy SortKey
	Left   []Record
	Right  []Record
}

// Leaderboard 按 key 降序取前 10 并拆成两列；不修改入参
func Leaderboard(recs []Record, key SortKey) Board {
	sorted := make([]Record, len(recs))
	copy(sorted, recs)
	if key == ByHeight {
		SortByHeight(sorted)
	} else {
		key = ByScore
		SortByScore(sorted)
	}
	if len(sorted) > boardSize {
		sorted = sorted[:boardSize]
	}
	b := Board{SortBy: key}
	if len(sorted) > columnSize {
		b.Left, b.Right = sorted[:columnSize], sorted[columnSize:]
	} else {
		b.Left = sorted
	}
	return b
}

// Toggle 切换排序字段
func (k SortKey) Toggle() SortKey {
	if k == ByHeight {
		return ByScore
	}
	return ByHeight
}

// Len 条目总数
func (b Board) Len() int { return len(b.Left) + len(b.Right) }

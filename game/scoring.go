package game

import "math"

// ZoneMultiplier 高度分区倍率：≤1000 ×1，≤2000 ×2，≤3000 ×3，其余 ×4
func ZoneMultiplier(heightMeters float64) int {
	switch {
	case heightMeters > 3000:
		return 4
	case heightMeters > 2000:
		return 3
	case heightMeters > 1000:
		return 2
	default:
		return 1
	}
}

// OrbPoints 单个光球得分
func OrbPoints(pointValue int, heightMeters float64) int {
	return pointValue * ZoneMultiplier(heightMeters)
}

// Award 一次得分结果
type Award struct {
	Points     int
	Multiplier int
	X, Y       float64
}

// Tracker 分数、高度与里程碑。里程碑集合在一局内只增不减。
type Tracker struct {
	t          Tuning
	score      int
	height     int
	milestones map[int]struct{}
	bonus      float64
}

// NewTracker 构造计分器
func NewTracker(t Tuning) *Tracker {
	return &Tracker{t: t, milestones: make(map[int]struct{})}
}

// Reset 回到初始值
func (tr *Tracker) Reset() {
	tr.score = 0
	tr.height = 0
	tr.bonus = 0
	clear(tr.milestones)
}

// OrbHeightMeters 光球所在高度（米）
func (tr *Tracker) OrbHeightMeters(o *Orb) float64 {
	return math.Abs(o.Y) / tr.t.UnitsPerMeter
}

// Collect 结算光球；重复结算返回 ok=false
func (tr *Tracker) Collect(o *Orb) (Award, bool) {
	if !o.markCollected() {
		return Award{}, false
	}
	mult := ZoneMultiplier(tr.OrbHeightMeters(o))
	pts := o.PointValue() * mult
	tr.score += pts
	return Award{Points: pts, Multiplier: mult, X: o.X, Y: o.Y}, true
}

// HeightFor 玩家 y 对应的攀爬高度（米，向下取整，不小于 0）
func (tr *Tracker) HeightFor(playerY float64) int {
	h := math.Floor((tr.t.SpawnY - playerY) / tr.t.UnitsPerMeter)
	if h < 0 {
		return 0
	}
	return int(h)
}

// UpdateHeight 刷新高度并检查里程碑；新达成时返回里程碑编号与 true
func (tr *Tracker) UpdateHeight(playerY float64) (int, bool) {
	tr.height = tr.HeightFor(playerY)
	m := tr.height / tr.t.MilestoneMeters
	if m <= 0 {
		return 0, false
	}
	if _, seen := tr.milestones[m]; seen {
		return m, false
	}
	tr.milestones[m] = struct{}{}
	tr.bonus += tr.t.MilestoneBonus
	return m, true
}

func (tr *Tracker) Score() int { return tr.score }

// Height 最近一次刷新的高度（米）
func (tr *Tracker) Height() int { return tr.height }

// Bonus 本局累计奖励时间（秒）
func (tr *Tracker) Bonus() float64 { return tr.bonus }

// Milestones 已达成的里程碑数
func (tr *Tracker) Milestones() int { return len(tr.milestones) }

// HasMilestone 是否已达成
func (tr *Tracker) HasMilestone(m int) bool {
	_, ok := tr.milestones[m]
	return ok
}

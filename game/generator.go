package game

import (
	"math"
	"math/rand/v2"
)

// PlatformChance 平台出现概率：随高度（米）分五档递减的纯函数
func PlatformChance(heightMeters float64) float64 {
	switch {
	case heightMeters > 500:
		return 0.2
	case heightMeters > 200:
		return 0.3
	case heightMeters > 100:
		return 0.5
	case heightMeters > 50:
		return 0.7
	default:
		return 0.9
	}
}

// MaxPlatformsPerRow 每行平台数上限，>=1
func (t Tuning) MaxPlatformsPerRow(heightMeters float64) int {
	n := t.MaxRowPlatforms - int(math.Floor(heightMeters/t.RowReductionMeters))
	if n < 1 {
		return 1
	}
	return n
}

// PlatformWidth 宽度随高度线性收缩，下限 PlatformMinWidth
func (t Tuning) PlatformWidth(heightMeters float64) float64 {
	w := t.PlatformBaseWidth * (1 - heightMeters/t.PlatformShrinkMeters)
	if math.IsNaN(w) || w < t.PlatformMinWidth {
		return t.PlatformMinWidth
	}
	return w
}

// SideMarginAt 两侧留白，高处加宽
func (t Tuning) SideMarginAt(heightMeters float64) float64 {
	if heightMeters > t.HighMarginMeters {
		return t.SideMargin + t.HighMarginBonus
	}
	return t.SideMargin
}

// OrbChance 光球生成概率，随高度衰减，不小于 0
func (t Tuning) OrbChance(heightMeters float64) float64 {
	c := t.OrbSpawnBaseChance * (1 - heightMeters/t.OrbFadeMeters)
	if c < 0 {
		return 0
	}
	return c
}

// RowGap 行间距随高度增大
func (t Tuning) RowGap(heightMeters float64) float64 {
	return t.BaseRowGap * (1 + heightMeters/t.GapDivisorMeters)
}

// Generator 在玩家上方按高度曲线逐行生成平台与光球
type Generator struct {
	t        Tuning
	rng      *rand.Rand
	frontier float64
	rows     int
}

// NewGenerator 构造生成器，前沿位于初始位置
func NewGenerator(t Tuning, rng *rand.Rand) *Generator {
	return &Generator{t: t, rng: rng, frontier: t.InitialFrontierY}
}

// Frontier 已生成区域的最高（最负）y
func (g *Generator) Frontier() float64 { return g.frontier }

// Rows 累计处理的行数（含空行）
func (g *Generator) Rows() int { return g.rows }

// Reset 前沿回到初始位置
func (g *Generator) Reset() {
	g.frontier = g.t.InitialFrontierY
	g.rows = 0
}

// NeedsRows 玩家是否已接近前沿（进入缓冲距离）
func (g *Generator) NeedsRows(playerY float64) bool {
	return g.frontier > playerY-g.t.GenerationBuffer && g.frontier > -g.t.WorldHeight
}

// GenerateAhead 持续生成直到前沿超出玩家上方缓冲距离，返回生成的行数
func (g *Generator) GenerateAhead(playerY float64, f *Field) int {
	rows := 0
	for g.NeedsRows(playerY) {
		g.row(f)
		rows++
	}
	return rows
}

// heightMeters 前沿对应的高度（米）
func (g *Generator) heightMeters() float64 {
	return math.Abs(g.frontier) / g.t.UnitsPerMeter
}

func (g *Generator) row(f *Field) {
	t := g.t
	h := g.heightMeters()
	y := g.frontier

	if g.rng.Float64() < PlatformChance(h) {
		count := 1 + g.rng.IntN(t.MaxPlatformsPerRow(h))
		for i := 0; i < count; i++ {
			width := t.PlatformWidth(h)
			margin := t.SideMarginAt(h)
			minX := margin
			maxX := t.WorldWidth - width - margin
			if maxX < minX {
				maxX = minX
			}
			x := math.Floor(minX + g.rng.Float64()*(maxX-minX))
			f.PlacePlatform(x, y, width, t.PlatformHeight)

			if g.rng.Float64() < t.OrbChance(h) {
				color := OrbPalette[g.rng.IntN(len(OrbPalette))]
				f.SpawnOrb(x+width/2, y-t.OrbOffsetY, color)
			}
		}
	}

	g.frontier -= t.RowGap(h)
	g.rows++
}

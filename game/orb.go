package game

// OrbColor 光球颜色，顺序即分值递增顺序
type OrbColor uint8

const (
	LightPink OrbColor = iota
	Pink
	HotPink
	DeepPink
	Magenta
)

// OrbPalette 有序调色板
var OrbPalette = [...]OrbColor{LightPink, Pink, HotPink, DeepPink, Magenta}

var orbPoints = [...]int{
	LightPink: 10,
	Pink:      20,
	HotPink:   30,
	DeepPink:  40,
	Magenta:   50,
}

var orbNames = [...]string{
	LightPink: "lightPink",
	Pink:      "pink",
	HotPink:   "hotPink",
	DeepPink:  "deepPink",
	Magenta:   "magenta",
}

// PointValue 分值仅由颜色决定
func (c OrbColor) PointValue() int {
	if int(c) >= len(orbPoints) {
		return orbPoints[LightPink]
	}
	return orbPoints[c]
}

func (c OrbColor) String() string {
	if int(c) >= len(orbNames) {
		return "unknown"
	}
	return orbNames[c]
}

// Orb 可收集光球。收集或清理后即销毁，不进入对象池。
type Orb struct {
	ID     uint64
	X, Y   float64
	Radius float64
	Color  OrbColor

	collected bool
	alive     bool
	body      *bodyRef
}

// PointValue 便捷访问
func (o *Orb) PointValue() int { return o.Color.PointValue() }

// Alive 仍在场景中（未被收集也未被清理）
func (o *Orb) Alive() bool { return o.alive }

// Collected 是否已被玩家收集
func (o *Orb) Collected() bool { return o.collected }

// markCollected 只允许成功一次
func (o *Orb) markCollected() bool {
	if !o.alive || o.collected {
		return false
	}
	o.collected = true
	return true
}

package game

import "fmt"

// EffectKind 装饰效果类型
type EffectKind uint8

const (
	EffectPoints EffectKind = iota + 1
	EffectTimeBonus
	EffectOrbBurst
	EffectDoubleJump
)

func (k EffectKind) String() string {
	switch k {
	case EffectPoints:
		return "points"
	case EffectTimeBonus:
		return "time_bonus"
	case EffectOrbBurst:
		return "orb_burst"
	case EffectDoubleJump:
		return "double_jump"
	default:
		return "unknown"
	}
}

// 效果持续时间（秒）
const (
	pointsDuration     = 1.0
	timeBonusDuration  = 1.5
	orbBurstDuration   = 0.2
	doubleJumpDuration = 0.2
)

// Effect 自过期的装饰实体；模拟逻辑从不读取
type Effect struct {
	Kind     EffectKind `json:"kind"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Text     string     `json:"text,omitempty"`
	Age      float64    `json:"age"`
	Duration float64    `json:"duration"`
}

// Progress 归一化进度 [0,1]
func (e Effect) Progress() float64 {
	if e.Duration <= 0 {
		return 1
	}
	return clamp(e.Age/e.Duration, 0, 1)
}

// Effects 每帧清扫的效果集合
type Effects struct {
	items []Effect
}

func (fx *Effects) add(e Effect) { fx.items = append(fx.items, e) }

// Points 得分飘字：“+N”，倍率 >1 时追加 “xM”
func (fx *Effects) Points(a Award) {
	text := fmt.Sprintf("+%d", a.Points)
	if a.Multiplier > 1 {
		text += fmt.Sprintf("\nx%d", a.Multiplier)
	}
	fx.add(Effect{Kind: EffectPoints, X: a.X, Y: a.Y, Text: text, Duration: pointsDuration})
	fx.add(Effect{Kind: EffectOrbBurst, X: a.X, Y: a.Y, Duration: orbBurstDuration})
}

// TimeBonus 里程碑加时提示
func (fx *Effects) TimeBonus(seconds float64) {
	fx.add(Effect{Kind: EffectTimeBonus, Text: fmt.Sprintf("+%gs", seconds), Duration: timeBonusDuration})
}

// DoubleJump 二段跳光环
func (fx *Effects) DoubleJump(x, y float64) {
	fx.add(Effect{Kind: EffectDoubleJump, X: x, Y: y, Duration: doubleJumpDuration})
}

// Sweep 推进时间并移除过期项
func (fx *Effects) Sweep(dt float64) {
	kept := fx.items[:0]
	for _, e := range fx.items {
		e.Age += dt
		if e.Age < e.Duration {
			kept = append(kept, e)
		}
	}
	fx.items = kept
}

// Clear 清空
func (fx *Effects) Clear() { fx.items = fx.items[:0] }

// Len 当前数量
func (fx *Effects) Len() int { return len(fx.items) }

// List 副本
func (fx *Effects) List() []Effect {
	out := make([]Effect, len(fx.items))
	copy(out, fx.items)
	return out
}

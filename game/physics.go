package game

import (
	"math"

	"github.com/solarlune/resolv"
)

// bodyRef 碰撞世界中的对象句柄
type bodyRef = resolv.Object

const (
	tagPlatform = "platform"
	tagOrb      = "orb"
	tagPlayer   = "player"

	// 单元格需大于单帧最大位移（MaxVelocityY * MaxStep）
	spaceCell = 128

	// 反弹速度低于该值视为静止，避免落地后无限微弹
	restSpeed = 60.0

	// 贴合判定的浮点容差
	touchEps = 1e-6
)

// Kind 碰撞载荷的类别标签
type Kind uint8

const (
	KindPlatform Kind = iota + 1
	KindOrb
)

func (k Kind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindOrb:
		return "orb"
	default:
		return "unknown"
	}
}

// Collider 碰撞回调的载荷：按 Kind 分发，不做运行时类型判断
type Collider struct {
	Kind     Kind
	Platform *Platform
	Orb      *Orb
}

// Body 玩家刚体：圆形，以 AABB 参与碰撞。X/Y 为圆心。
type Body struct {
	X, Y     float64
	VX, VY   float64
	AX       float64
	Radius   float64
	Grounded bool

	ref *bodyRef
}

func (b *Body) left() float64   { return b.X - b.Radius }
func (b *Body) right() float64  { return b.X + b.Radius }
func (b *Body) top() float64    { return b.Y - b.Radius }
func (b *Body) bottom() float64 { return b.Y + b.Radius }

// World 碰撞世界：resolv 空间做宽相位，精确 AABB 判定在本包内完成。
// 空间只覆盖 y ∈ [-WorldHeight, FallThresholdY+CleanupThreshold]，通过 offset 平移到非负坐标。
type World struct {
	t      Tuning
	space  *resolv.Space
	offset float64
}

// NewWorld 按参数分配碰撞空间
func NewWorld(t Tuning) *World {
	below := t.FallThresholdY + t.CleanupThreshold
	if below < t.GroundY+t.GroundHeight {
		below = t.GroundY + t.GroundHeight
	}
	height := int(math.Ceil(t.WorldHeight+below)) + spaceCell
	width := int(math.Ceil(t.WorldWidth)) + spaceCell
	return &World{
		t:      t,
		space:  resolv.NewSpace(width, height, spaceCell, spaceCell),
		offset: t.WorldHeight,
	}
}

func (w *World) place(obj *resolv.Object, x, y, width, height float64) {
	obj.X = x
	obj.Y = y + w.offset
	obj.W = width
	obj.H = height
}

// AddPlatform 将平台插入碰撞世界；对象句柄随平台实例复用
func (w *World) AddPlatform(p *Platform) {
	if p.body == nil {
		p.body = resolv.NewObject(0, 0, 1, 1, tagPlatform)
		p.body.Data = &Collider{Kind: KindPlatform, Platform: p}
	}
	w.place(p.body, p.X, p.Y, p.Width, p.Height)
	w.space.Add(p.body)
}

// RemovePlatform 从碰撞世界移除
func (w *World) RemovePlatform(p *Platform) {
	if p.body != nil && p.body.Space != nil {
		w.space.Remove(p.body)
	}
}

// AddOrb 插入光球
func (w *World) AddOrb(o *Orb) {
	if o.body == nil {
		o.body = resolv.NewObject(0, 0, 1, 1, tagOrb)
		o.body.Data = &Collider{Kind: KindOrb, Orb: o}
	}
	w.place(o.body, o.X-o.Radius, o.Y-o.Radius, o.Radius*2, o.Radius*2)
	w.space.Add(o.body)
}

// RemoveOrb 从碰撞世界移除
func (w *World) RemoveOrb(o *Orb) {
	if o.body != nil && o.body.Space != nil {
		w.space.Remove(o.body)
	}
}

// AddBody 注册玩家刚体
func (w *World) AddBody(b *Body) {
	if b.ref == nil {
		b.ref = resolv.NewObject(0, 0, 1, 1, tagPlayer)
	}
	w.sync(b)
	if b.ref.Space == nil {
		w.space.Add(b.ref)
	}
}

// Teleport 直接设置刚体位置（蓄力定身、重置出生点）
func (w *World) Teleport(b *Body, x, y float64) {
	b.X, b.Y = x, y
	w.sync(b)
}

func (w *World) sync(b *Body) {
	if b.ref == nil {
		return
	}
	w.place(b.ref, b.left(), b.top(), b.Radius*2, b.Radius*2)
	if b.ref.Space != nil {
		b.ref.Update()
	}
}

// Step 推进一帧：加速度/重力/阻力/限速，然后按轴分离平台碰撞。返回本帧接触到的平台。
func (w *World) Step(b *Body, dt float64) []Collider {
	if dt <= 0 {
		return nil
	}
	t := w.t

	if b.AX != 0 {
		b.VX += b.AX * dt
	} else {
		b.VX = applyDrag(b.VX, t.Drag*dt)
	}
	b.VY += t.Gravity * dt
	b.VY = applyDrag(b.VY, t.Drag*dt)

	b.VX = clamp(b.VX, -t.MaxVelocityX, t.MaxVelocityX)
	b.VY = clamp(b.VY, -t.MaxVelocityY, t.MaxVelocityY)

	var contacts []Collider
	b.Grounded = false

	// 水平
	if dx := b.VX * dt; dx != 0 {
		if hit := w.platformHit(b, dx, 0); hit != nil {
			p := hit.Platform
			if dx > 0 {
				b.X = p.X - b.Radius
			} else {
				b.X = p.Right() + b.Radius
			}
			b.VX = rebound(b.VX, t.Bounce)
			contacts = append(contacts, *hit)
		} else {
			b.X += dx
		}
	}
	if b.X < b.Radius {
		b.X = b.Radius
		b.VX = rebound(b.VX, t.Bounce)
	} else if b.X > t.WorldWidth-b.Radius {
		b.X = t.WorldWidth - b.Radius
		b.VX = rebound(b.VX, t.Bounce)
	}
	w.sync(b)

	// 垂直
	if dy := b.VY * dt; dy != 0 {
		if hit := w.platformHit(b, 0, dy); hit != nil {
			p := hit.Platform
			if dy > 0 {
				b.Y = p.Y - b.Radius
				b.Grounded = true
			} else {
				b.Y = p.Bottom() + b.Radius
			}
			b.VY = rebound(b.VY, t.Bounce)
			contacts = append(contacts, *hit)
		} else {
			b.Y += dy
		}
	}
	if ceiling := -t.WorldHeight + b.Radius; b.Y < ceiling {
		b.Y = ceiling
		b.VY = rebound(b.VY, t.Bounce)
	}
	w.sync(b)
	return contacts
}

// Supported 刚体正下方是否贴着平台
func (w *World) Supported(b *Body) bool {
	return w.platformHit(b, 0, 1) != nil
}

// platformHit 沿单轴移动 (dx, dy) 时遇到的最近平台；起始已重叠的平台忽略
func (w *World) platformHit(b *Body, dx, dy float64) *Collider {
	if b.ref == nil || b.ref.Space == nil {
		return nil
	}
	col := b.ref.Check(dx, dy, tagPlatform)
	if col == nil {
		return nil
	}
	l, r := b.left()+dx, b.right()+dx
	tp, bt := b.top()+dy, b.bottom()+dy

	var best *Collider
	bestEdge := 0.0
	for _, obj := range col.Objects {
		c, ok := obj.Data.(*Collider)
		if !ok || c.Kind != KindPlatform || !c.Platform.active {
			continue
		}
		p := c.Platform
		if !overlaps(l, tp, r, bt, p.X, p.Y, p.Right(), p.Bottom()) {
			continue
		}
		var edge float64
		switch {
		case dx > 0:
			if p.X < b.right()-touchEps {
				continue
			}
			edge = p.X
		case dx < 0:
			if p.Right() > b.left()+touchEps {
				continue
			}
			edge = -p.Right()
		case dy > 0:
			if p.Y < b.bottom()-touchEps {
				continue
			}
			edge = p.Y
		default:
			if p.Bottom() > b.top()+touchEps {
				continue
			}
			edge = -p.Bottom()
		}
		if best == nil || edge < bestEdge {
			best, bestEdge = c, edge
		}
	}
	return best
}

// Overlaps 返回与刚体重叠的存活光球
func (w *World) Overlaps(b *Body) []Collider {
	if b.ref == nil || b.ref.Space == nil {
		return nil
	}
	col := b.ref.Check(0, 0, tagOrb)
	if col == nil {
		return nil
	}
	var out []Collider
	for _, obj := range col.Objects {
		c, ok := obj.Data.(*Collider)
		if !ok || c.Kind != KindOrb || !c.Orb.alive {
			continue
		}
		o := c.Orb
		if overlaps(b.left(), b.top(), b.right(), b.bottom(), o.X-o.Radius, o.Y-o.Radius, o.X+o.Radius, o.Y+o.Radius) {
			out = append(out, *c)
		}
	}
	return out
}

func overlaps(l1, t1, r1, b1, l2, t2, r2, b2 float64) bool {
	return l1 < r2 && r1 > l2 && t1 < b2 && b1 > t2
}

func applyDrag(v, amount float64) float64 {
	switch {
	case v > amount:
		return v - amount
	case v < -amount:
		return v + amount
	default:
		return 0
	}
}

func rebound(v, bounce float64) float64 {
	out := -v * bounce
	if math.Abs(out) < restSpeed {
		return 0
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

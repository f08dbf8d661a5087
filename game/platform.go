package game

// Platform 静态矩形平台，(X, Y) 为左上角
type Platform struct {
	ID     uint64
	X, Y   float64
	Width  float64
	Height float64
	Ground bool

	active bool
	body   *bodyRef
}

// Active 当前是否在碰撞世界中
func (p *Platform) Active() bool { return p.active }

// Bottom 平台下沿
func (p *Platform) Bottom() float64 { return p.Y + p.Height }

// Right 平台右沿
func (p *Platform) Right() float64 { return p.X + p.Width }

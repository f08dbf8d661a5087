package game

import "math"

// PlayerView 玩家的可观察状态
type PlayerView struct {
	X             float64      `json:"x"`
	Y             float64      `json:"y"`
	VX            float64      `json:"vx"`
	VY            float64      `json:"vy"`
	Radius        float64      `json:"r"`
	Rotation      float64      `json:"rot"`
	Mode          string       `json:"mode"`
	CanDoubleJump bool         `json:"canDoubleJump"`
	Charge        ChargeVisual `json:"charge"`
}

// PlatformView 平台
type PlatformView struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	Ground bool    `json:"ground,omitempty"`
}

// OrbView 光球
type OrbView struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	R      float64 `json:"r"`
	Color  string  `json:"color"`
	Points int     `json:"points"`
}

// Snapshot 展示层所需的全部输出
type Snapshot struct {
	Tick          uint64         `json:"tick"`
	State         string         `json:"state"`
	Score         int            `json:"score"`
	Height        int            `json:"height"`
	TimeRemaining int            `json:"timeRemaining"`
	Paused        bool           `json:"paused"`
	GameOver      bool           `json:"gameOver"`
	Message       string         `json:"message,omitempty"`
	ChargeLevel   float64        `json:"chargeLevel"`
	FPS           int            `json:"fps"`
	Frontier      float64        `json:"frontier"`
	Player        PlayerView     `json:"player"`
	Platforms     []PlatformView `json:"platforms"`
	Orbs          []OrbView      `json:"orbs"`
	Effects       []Effect       `json:"effects,omitempty"`
}

// Snapshot 全量快照
func (s *Session) Snapshot() Snapshot {
	return s.snapshot(math.Inf(1))
}

// SnapshotAround 只包含玩家上下 radius 范围内的对象（视口裁剪）
func (s *Session) SnapshotAround(radius float64) Snapshot {
	return s.snapshot(radius)
}

func (s *Session) snapshot(radius float64) Snapshot {
	p := s.player
	py := p.Body.Y
	snap := Snapshot{
		Tick:          s.tick,
		State:         s.state.String(),
		Score:         s.hud.Score,
		Height:        s.hud.Height,
		TimeRemaining: s.hud.TimeRemaining,
		Paused:        s.state == StatePaused,
		GameOver:      s.state == StateGameOver,
		Message:       s.reason,
		ChargeLevel:   p.ChargeLevel(),
		FPS:           s.hud.FPS,
		Frontier:      s.gen.Frontier(),
		Player: PlayerView{
			X:             p.Body.X,
			Y:             p.Body.Y,
			VX:            p.Body.VX,
			VY:            p.Body.VY,
			Radius:        p.Body.Radius,
			Rotation:      p.Rotation,
			Mode:          p.Mode().String(),
			CanDoubleJump: p.CanDoubleJump(),
			Charge:        p.ChargeVisual(),
		},
		Platforms: make([]PlatformView, 0, len(s.field.Platforms())),
		Orbs:      make([]OrbView, 0, len(s.field.Orbs())),
		Effects:   s.effects.List(),
	}
	for _, pl := range s.field.Platforms() {
		if pl.Bottom() < py-radius || pl.Y > py+radius {
			continue
		}
		snap.Platforms = append(snap.Platforms, PlatformView{
			ID: pl.ID, X: pl.X, Y: pl.Y, W: pl.Width, H: pl.Height, Ground: pl.Ground,
		})
	}
	for _, o := range s.field.Orbs() {
		if math.Abs(o.Y-py) > radius {
			continue
		}
		snap.Orbs = append(snap.Orbs, OrbView{
			ID: o.ID, X: o.X, Y: o.Y, R: o.Radius, Color: o.Color.String(), Points: o.PointValue(),
		})
	}
	return snap
}

package game

// FieldStats 场景对象统计（供监控）
type FieldStats struct {
	PlatformsPlaced   int `json:"platformsPlaced"`
	PlatformsRecycled int `json:"platformsRecycled"`
	OrbsSpawned       int `json:"orbsSpawned"`
	OrbsCollected     int `json:"orbsCollected"`
	OrbsExpired       int `json:"orbsExpired"`
}

// Field 持有活跃平台/光球并负责回收：平台走对象池，光球直接销毁
type Field struct {
	t     Tuning
	world *World
	pool  *PlatformPool
	orbs  []*Orb

	nextOrbID uint64
	stats     FieldStats
}

// NewField 构造场景容器
func NewField(t Tuning, world *World) *Field {
	return &Field{
		t:     t,
		world: world,
		pool:  NewPlatformPool(t.PoolPrewarm),
	}
}

// PlacePlatform 从池中取平台并放入碰撞世界
func (f *Field) PlacePlatform(x, y, width, height float64) *Platform {
	p := f.pool.Acquire()
	p.X, p.Y, p.Width, p.Height = x, y, width, height
	f.world.AddPlatform(p)
	f.stats.PlatformsPlaced++
	return p
}

// PlaceGround 放置地面平台
func (f *Field) PlaceGround() *Platform {
	p := f.PlacePlatform(f.t.GroundX, f.t.GroundY, f.t.GroundWidth, f.t.GroundHeight)
	p.Ground = true
	return p
}

// RetirePlatform 先移出碰撞世界再归还对象池
func (f *Field) RetirePlatform(p *Platform) bool {
	if !f.pool.IsActive(p) {
		return false
	}
	f.world.RemovePlatform(p)
	f.pool.Release(p)
	f.stats.PlatformsRecycled++
	return true
}

// SpawnOrb 新建光球（不复用）
func (f *Field) SpawnOrb(x, y float64, color OrbColor) *Orb {
	f.nextOrbID++
	o := &Orb{
		ID:     f.nextOrbID,
		X:      x,
		Y:      y,
		Radius: f.t.OrbRadius,
		Color:  color,
		alive:  true,
	}
	f.world.AddOrb(o)
	f.orbs = append(f.orbs, o)
	f.stats.OrbsSpawned++
	return o
}

// DestroyOrb 移出碰撞世界与活跃列表
func (f *Field) DestroyOrb(o *Orb) bool {
	for i, cur := range f.orbs {
		if cur != o {
			continue
		}
		last := len(f.orbs) - 1
		f.orbs[i] = f.orbs[last]
		f.orbs[last] = nil
		f.orbs = f.orbs[:last]
		f.world.RemoveOrb(o)
		o.alive = false
		if o.collected {
			f.stats.OrbsCollected++
		}
		return true
	}
	return false
}

// Sweep 回收落后玩家超过阈值的对象，返回回收的平台数与光球数
func (f *Field) Sweep(playerY float64) (platforms, orbs int) {
	limit := playerY + f.t.CleanupThreshold

	var stale []*Platform
	for _, p := range f.pool.Active() {
		if p.Y > limit {
			stale = append(stale, p)
		}
	}
	for _, p := range stale {
		if f.RetirePlatform(p) {
			platforms++
		}
	}

	kept := f.orbs[:0]
	for _, o := range f.orbs {
		if o.Y > limit {
			f.world.RemoveOrb(o)
			o.alive = false
			f.stats.OrbsExpired++
			orbs++
			continue
		}
		kept = append(kept, o)
	}
	for i := len(kept); i < len(f.orbs); i++ {
		f.orbs[i] = nil
	}
	f.orbs = kept
	return platforms, orbs
}

// Clear 清空场景：全部平台归池，全部光球销毁
func (f *Field) Clear() {
	for len(f.pool.Active()) > 0 {
		p := f.pool.Active()[0]
		f.world.RemovePlatform(p)
		f.pool.Release(p)
	}
	for _, o := range f.orbs {
		f.world.RemoveOrb(o)
		o.alive = false
	}
	f.orbs = nil
}

// Platforms 活跃平台（只读）
func (f *Field) Platforms() []*Platform { return f.pool.Active() }

// Orbs 存活光球（只读）
func (f *Field) Orbs() []*Orb { return f.orbs }

// Pool 对象池
func (f *Field) Pool() *PlatformPool { return f.pool }

// Stats 统计快照
func (f *Field) Stats() FieldStats { return f.stats }

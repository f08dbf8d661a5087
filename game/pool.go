package game

// PlatformPool 平台实例缓存：活跃集合与空闲列表互斥，释放只回收不销毁
type PlatformPool struct {
	free   []*Platform
	active []*Platform
	index  map[*Platform]int

	nextID    uint64
	allocated int
	reused    int
}

// NewPlatformPool 预分配 prewarm 个空闲实例
func NewPlatformPool(prewarm int) *PlatformPool {
	pp := &PlatformPool{index: make(map[*Platform]int)}
	for i := 0; i < prewarm; i++ {
		pp.free = append(pp.free, pp.alloc())
	}
	return pp
}

func (pp *PlatformPool) alloc() *Platform {
	pp.nextID++
	pp.allocated++
	return &Platform{ID: pp.nextID}
}

// Acquire 优先复用空闲实例，池空时新分配
func (pp *PlatformPool) Acquire() *Platform {
	var p *Platform
	if n := len(pp.free); n > 0 {
		p = pp.free[n-1]
		pp.free[n-1] = nil
		pp.free = pp.free[:n-1]
		pp.reused++
	} else {
		p = pp.alloc()
	}
	p.active = true
	pp.index[p] = len(pp.active)
	pp.active = append(pp.active, p)
	return p
}

// Release 停用并放回空闲列表；对非活跃实例无效（防止重复入池）
func (pp *PlatformPool) Release(p *Platform) bool {
	i, ok := pp.index[p]
	if !ok {
		return false
	}
	last := len(pp.active) - 1
	if i != last {
		moved := pp.active[last]
		pp.active[i] = moved
		pp.index[moved] = i
	}
	pp.active[last] = nil
	pp.active = pp.active[:last]
	delete(pp.index, p)

	p.active = false
	p.Ground = false
	pp.free = append(pp.free, p)
	return true
}

// Active 活跃平台视图（只读，调用方不得修改切片）
func (pp *PlatformPool) Active() []*Platform { return pp.active }

// IsActive 是否在活跃集合中
func (pp *PlatformPool) IsActive(p *Platform) bool {
	_, ok := pp.index[p]
	return ok
}

// IsFree 是否在空闲列表中
func (pp *PlatformPool) IsFree(p *Platform) bool {
	for _, f := range pp.free {
		if f == p {
			return true
		}
	}
	return false
}

func (pp *PlatformPool) ActiveCount() int { return len(pp.active) }
func (pp *PlatformPool) FreeCount() int   { return len(pp.free) }

// Allocated 累计分配的实例数（= 活跃 + 空闲）
func (pp *PlatformPool) Allocated() int { return pp.allocated }

// Reused 从空闲列表取出的次数
func (pp *PlatformPool) Reused() int { return pp.reused }

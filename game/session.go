package game

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// State 会话状态
type State uint8

const (
	StatePlaying State = iota
	StatePaused
	StateGameOver
)

func (st State) String() string {
	switch st {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// 结束原因
const (
	ReasonTimeUp = "Time's Up!"
	ReasonFell   = "You Fell Too Far!"
)

// HUD 按节流节奏发布给展示层的数值
type HUD struct {
	Score         int
	Height        int
	TimeRemaining int
	FPS           int
}

// FinalStats 结束时的成绩
type FinalStats struct {
	Score  int
	Height int
	Reason string
}

// Stats 会话级统计（供监控）
type Stats struct {
	Field         FieldStats `json:"field"`
	PoolAllocated int        `json:"poolAllocated"`
	PoolReused    int        `json:"poolReused"`
	PoolActive    int        `json:"poolActive"`
	PoolFree      int        `json:"poolFree"`
	Rows          int        `json:"rows"`
	Resets        int        `json:"resets"`
	GameOvers     int        `json:"gameOvers"`
}

// Option 会话构造选项
type Option func(*Session)

// WithLogger 注入日志；默认不输出
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSeed 固定随机种子
func WithSeed(seed int64) Option {
	return func(s *Session) { s.seed = seed }
}

type collisionHandler func(s *Session, c Collider)

// 碰撞载荷按 Kind 查表分发
var collisionHandlers = map[Kind]collisionHandler{
	KindPlatform: (*Session).touchPlatform,
	KindOrb:      (*Session).collectOrb,
}

// Session 一局游戏：状态机 + 计时器，单线程推进。外部命令经 Submit 排队，
// 在下一次 Update 开始时统一消费。
type Session struct {
	t    Tuning
	log  *zap.SugaredLogger
	seed int64
	rng  *rand.Rand

	world   *World
	field   *Field
	gen     *Generator
	player  *Player
	tracker *Tracker
	effects Effects
	sched   Scheduler
	fps     FPSMeter

	state         State
	reason        string
	tick          uint64
	clock         float64
	timeRemaining float64
	hud           HUD
	final         FinalStats
	standing      uint64

	queue   []Command
	pending *Tuning
	stats   Stats
}

// NewSession 创建会话并生成初始布局
func NewSession(t Tuning, opts ...Option) (*Session, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		t:   t,
		log: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	s.rng = newRNG(s.seed)
	s.build()
	s.Reset()
	s.stats.Resets = 0
	s.log.Infow("session created", "seed", s.seed, "platforms", len(s.field.Platforms()))
	return s, nil
}

func (s *Session) build() {
	s.world = NewWorld(s.t)
	s.field = NewField(s.t, s.world)
	s.gen = NewGenerator(s.t, s.rng)
	s.player = NewPlayer(s.t, s.world)
	s.tracker = NewTracker(s.t)
	s.sched = NewScheduler(s.t.Cadence)
}

// Submit 排队一条命令，下一次 Update 生效
func (s *Session) Submit(cmd Command) {
	s.queue = append(s.queue, cmd)
}

// SetPendingTuning 新参数在下一次重置时生效
func (s *Session) SetPendingTuning(t Tuning) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("pending tuning: %w", err)
	}
	s.pending = &t
	return nil
}

// Tuning 当前生效的参数
func (s *Session) Tuning() Tuning { return s.t }

func (s *Session) drain() {
	if len(s.queue) == 0 {
		return
	}
	cmds := s.queue
	s.queue = nil
	for _, cmd := range cmds {
		switch cmd.Kind {
		case CmdReset:
			s.Reset()
		case CmdPauseToggle:
			s.togglePause()
		default:
			// 非 Playing 状态下不触发动作，只记录松开与方向
			if s.state == StatePlaying {
				s.player.apply(cmd, s.clock)
			} else {
				s.player.track(cmd)
			}
		}
	}
}

func (s *Session) togglePause() {
	switch s.state {
	case StatePlaying:
		s.state = StatePaused
	case StatePaused:
		s.state = StatePlaying
	}
}

// Update 推进一帧。Paused / GameOver 下只处理恢复与重置命令。
func (s *Session) Update(dt time.Duration) {
	s.drain()
	if s.state != StatePlaying {
		return
	}
	raw := dt.Seconds()
	step := math.Min(raw, s.t.MaxStep)
	if step <= 0 {
		return
	}
	s.tick++
	s.clock += step
	s.fps.Observe(raw)

	if s.sched.Due(TaskTimer, s.tick) {
		s.refreshTimer()
		if s.timeRemaining <= 0 {
			s.gameOver(ReasonTimeUp)
			return
		}
	}

	ev := s.player.Update(s.clock, step)
	if ev.DoubleJumped {
		s.effects.DoubleJump(s.player.Body.X, s.player.Body.Y)
	}
	for _, c := range s.player.contacts {
		s.dispatch(c)
	}
	for _, c := range s.world.Overlaps(&s.player.Body) {
		s.dispatch(c)
	}

	if s.sched.Due(TaskScore, s.tick) {
		s.refreshHeight()
	}

	y := s.player.Body.Y
	// 生成不节流：平台耗尽会立刻被看到
	if s.gen.NeedsRows(y) {
		s.gen.GenerateAhead(y, s.field)
	}

	if s.sched.Due(TaskCleanup, s.tick) {
		s.field.Sweep(y)
		if y > s.t.FallThresholdY {
			s.gameOver(ReasonFell)
			return
		}
	}

	if s.sched.Due(TaskFPS, s.tick) {
		s.hud.FPS = s.fps.FPS()
	}
	s.effects.Sweep(step)
}

func (s *Session) dispatch(c Collider) {
	if h, ok := collisionHandlers[c.Kind]; ok {
		h(s, c)
	}
}

func (s *Session) touchPlatform(c Collider) {
	if c.Platform != nil {
		s.standing = c.Platform.ID
	}
}

func (s *Session) collectOrb(c Collider) {
	if c.Orb == nil {
		return
	}
	award, ok := s.tracker.Collect(c.Orb)
	if !ok {
		return
	}
	s.field.DestroyOrb(c.Orb)
	s.effects.Points(award)
}

func (s *Session) refreshTimer() {
	left := s.t.TimeLimit + s.tracker.Bonus() - math.Floor(s.clock)
	if left < 0 {
		left = 0
	}
	s.timeRemaining = left
	s.hud.TimeRemaining = int(left)
}

func (s *Session) refreshHeight() {
	if m, ok := s.tracker.UpdateHeight(s.player.Body.Y); ok {
		s.refreshTimer()
		s.effects.TimeBonus(s.t.MilestoneBonus)
		s.log.Debugw("milestone reached", "milestone", m, "height", s.tracker.Height())
	}
	s.hud.Score = s.tracker.Score()
	s.hud.Height = s.tracker.Height()
}

func (s *Session) gameOver(reason string) {
	if s.state == StateGameOver {
		return
	}
	s.state = StateGameOver
	s.reason = reason
	s.hud.Score = s.tracker.Score()
	s.hud.Height = s.tracker.Height()
	s.final = FinalStats{Score: s.tracker.Score(), Height: s.tracker.Height(), Reason: reason}
	s.stats.GameOvers++
	s.log.Infow("game over", "reason", reason, "score", s.final.Score, "height", s.final.Height, "tick", s.tick)
}

// Reset 恢复到新开局：分数/计时/里程碑归零，场景重新铺设，玩家回到出生点
func (s *Session) Reset() {
	if s.pending != nil {
		s.t = *s.pending
		s.pending = nil
		s.build()
	}
	s.field.Clear()
	s.gen.Reset()
	s.tracker.Reset()
	s.effects.Clear()
	s.fps.Reset()

	s.state = StatePlaying
	s.reason = ""
	s.tick = 0
	s.clock = 0
	s.timeRemaining = s.t.TimeLimit
	s.hud = HUD{TimeRemaining: int(s.t.TimeLimit)}
	s.final = FinalStats{}
	s.standing = 0

	s.field.PlaceGround()
	s.player.Reset()
	s.gen.GenerateAhead(s.player.Body.Y, s.field)
	s.stats.Resets++
	s.log.Debugw("session reset", "frontier", s.gen.Frontier(), "platforms", len(s.field.Platforms()))
}

// State 当前状态
func (s *Session) State() State { return s.state }

// Paused 是否暂停
func (s *Session) Paused() bool { return s.state == StatePaused }

// Score 实时分数
func (s *Session) Score() int { return s.tracker.Score() }

// HeightMeters 最近一次刷新的高度
func (s *Session) HeightMeters() int { return s.tracker.Height() }

// TimeRemaining 剩余秒数
func (s *Session) TimeRemaining() float64 { return s.timeRemaining }

// GameOverReason 结束原因；未结束时为空
func (s *Session) GameOverReason() string { return s.reason }

// FinalStats 结束成绩；未结束时 ok=false
func (s *Session) FinalStats() (FinalStats, bool) {
	return s.final, s.state == StateGameOver
}

// Milestones 已达成里程碑数
func (s *Session) Milestones() int { return s.tracker.Milestones() }

// Tick 本局已推进的帧数
func (s *Session) Tick() uint64 { return s.tick }

// HUD 已发布的界面数值
func (s *Session) HUD() HUD { return s.hud }

// Player 玩家控制器
func (s *Session) Player() *Player { return s.player }

// Field 场景对象
func (s *Session) Field() *Field { return s.field }

// Generator 生成器
func (s *Session) Generator() *Generator { return s.gen }

// Seed 随机种子
func (s *Session) Seed() int64 { return s.seed }

// Stats 统计快照
func (s *Session) Stats() Stats {
	st := s.stats
	st.Field = s.field.Stats()
	pool := s.field.Pool()
	st.PoolAllocated = pool.Allocated()
	st.PoolReused = pool.Reused()
	st.PoolActive = pool.ActiveCount()
	st.PoolFree = pool.FreeCount()
	st.Rows = s.gen.Rows()
	return st
}

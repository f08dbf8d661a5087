package server

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"bounceball/game"
	"bounceball/scores"
)

// ErrRoomBusy 房间控制通道已满
var ErrRoomBusy = errors.New("room busy")

// 视口裁剪半径（世界单位），只广播玩家附近的对象
const viewRadius = 1200

// RoomConfig 新建房间使用的参数
type RoomConfig struct {
	Tuning           game.Tuning
	Seed             int64
	TickRate         int
	BroadcastEvery   int
	MaxInputsPerTick int
	Store            scores.Store
	Log              *zap.SugaredLogger
}

// DefaultRoomConfig 60 TPS，每 2 帧广播一次
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		Tuning:           game.DefaultTuning(),
		TickRate:         60,
		BroadcastEvery:   2,
		MaxInputsPerTick: 8,
	}
}

// Room 房间：托管一局游戏会话。会话与客户端表只在 Tick 协程内读写，
// 其他协程经由通道投递意图。
type Room struct {
	ID string

	session *game.Session
	store   scores.Store
	log     *zap.SugaredLogger
	metrics *RoomMetrics

	clients map[PlayerID]*Client
	order   []PlayerID // 加入顺序，首位为操控者

	inputChan  chan Input
	joinChan   chan *Client
	leaveChan  chan leave
	tuningChan chan game.Tuning
	noticeChan chan notice

	broadcastEvery   atomic.Int64
	maxInputsPerTick atomic.Int64
	clientCount      atomic.Int64
	tickSeq          atomic.Uint64

	inputsThisTick map[PlayerID]int
	lastSeq        map[PlayerID]int64
	lastState      game.State
	submitted      bool

	tuning atomic.Pointer[game.Tuning] // 最近一次设置的参数（可能尚未生效）
	stats  atomic.Pointer[game.Stats]

	interval  time.Duration
	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	quit      chan struct{}
	done      chan struct{}
}

// NewRoom 创建房间与会话
func NewRoom(id string, cfg RoomConfig) (*Room, error) {
	log := cfg.Log
	if log == nil {
		log = Log
	}
	log = log.With("room", id)
	opts := []game.Option{game.WithLogger(log)}
	if cfg.Seed != 0 {
		opts = append(opts, game.WithSeed(cfg.Seed))
	}
	sess, err := game.NewSession(cfg.Tuning, opts...)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", id, err)
	}
	rate := cfg.TickRate
	if rate < 1 {
		rate = 60
	}
	r := &Room{
		ID:             id,
		session:        sess,
		store:          cfg.Store,
		log:            log,
		metrics:        &RoomMetrics{},
		clients:        make(map[PlayerID]*Client),
		inputChan:      make(chan Input, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		joinChan:       make(chan *Client, 64),
		leaveChan:      make(chan leave, 64),
		tuningChan:     make(chan game.Tuning, 4),
		noticeChan:     make(chan notice, 16),
		inputsThisTick: make(map[PlayerID]int),
		lastSeq:        make(map[PlayerID]int64),
		lastState:      sess.State(),
		interval:       time.Second / time.Duration(rate),
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
	}
	r.broadcastEvery.Store(int64(max(cfg.BroadcastEvery, 1)))
	r.maxInputsPerTick.Store(int64(cfg.MaxInputsPerTick))
	t := cfg.Tuning
	r.tuning.Store(&t)
	r.publishStats()
	return r, nil
}

// Join 请求在 Tick 协程中加入客户端
func (r *Room) Join(c *Client) {
	r.joinChan <- c
}

// leave 只移除仍持有该连接的客户端：同名重连后旧连接的离开请求不生效
type leave struct {
	pid  PlayerID
	conn Conn
}

// RequestLeave 请求在 Tick 线程中移除玩家，避免并发改动房间状态
func (r *Room) RequestLeave(pid PlayerID, conn Conn) {
	// 阻塞写入保证移除生效；房间已停止时不再有人消费，直接返回
	select {
	case r.leaveChan <- leave{pid: pid, conn: conn}:
	case <-r.quit:
	}
}

// OnInput 入站输入（不立即生效），仅记录意图，等下一次 Tick 处理
func (r *Room) OnInput(in Input) {
	select {
	case r.inputChan <- in:
	default:
		// 丢弃：为了实时性，避免背压影响世界推进
		r.metrics.IncChanFullDiscarded()
	}
}

// UpdateTuning 新参数在会话下一次重置时生效
func (r *Room) UpdateTuning(t game.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	select {
	case r.tuningChan <- t:
		r.tuning.Store(&t)
		return nil
	default:
		return ErrRoomBusy
	}
}

// Tuning 最近一次设置的参数
func (r *Room) Tuning() game.Tuning { return *r.tuning.Load() }

// Stats 最近发布的会话统计
func (r *Room) Stats() game.Stats { return *r.stats.Load() }

// Metrics 运行指标
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// ClientCount 当前连接数
func (r *Room) ClientCount() int { return int(r.clientCount.Load()) }

// TickSeq 已执行的 Tick 数
func (r *Room) TickSeq() uint64 { return r.tickSeq.Load() }

// Step 执行一个完整的 Tick：处理输入 → 推进会话 → 广播结果
func (r *Room) Step(dt time.Duration) {
	start := time.Now()
	r.BeginTick()
	r.ProcessInputs()
	r.session.Update(dt)
	r.afterUpdate()

	seq := r.tickSeq.Add(1)
	if every := uint64(r.broadcastEvery.Load()); every <= 1 || seq%every == 0 {
		r.Broadcast(seq)
	}
	r.metrics.AddTick(time.Since(start).Nanoseconds())
}

// BeginTick 重置帧内计数
func (r *Room) BeginTick() {
	clear(r.inputsThisTick)
}

// ProcessInputs 非阻塞地取完所有待处理的事件
func (r *Room) ProcessInputs() {
	for {
		select {
		case c := <-r.joinChan:
			r.addClient(c)
		case l := <-r.leaveChan:
			if c, ok := r.clients[l.pid]; ok && (l.conn == nil || c.Conn == l.conn) {
				r.removeClient(l.pid)
			}
		case t := <-r.tuningChan:
			if err := r.session.SetPendingTuning(t); err != nil {
				r.log.Warnw("tuning rejected", "err", err)
			}
		case n := <-r.noticeChan:
			r.deliver(n)
		case in := <-r.inputChan:
			r.handleInput(in)
		default:
			return
		}
	}
}

func (r *Room) pilot() PlayerID {
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0]
}

func (r *Room) addClient(c *Client) {
	if old, ok := r.clients[c.ID]; ok {
		// 同名重连：替换连接，保留顺位
		old.Conn.Close()
	} else {
		r.order = append(r.order, c.ID)
	}
	r.clients[c.ID] = c
	delete(r.lastSeq, c.ID)
	r.clientCount.Store(int64(len(r.clients)))
	r.sendTo(c, welcomeMessage{
		Type:   msgWelcome,
		Room:   r.ID,
		Player: string(c.ID),
		Pilot:  r.pilot() == c.ID,
		Seed:   r.session.Seed(),
	})
	r.log.Infow("client joined", "player", c.ID, "codec", c.Codec.Name(), "clients", len(r.clients))
}

func (r *Room) removeClient(pid PlayerID) {
	c, ok := r.clients[pid]
	if !ok {
		return
	}
	wasPilot := r.pilot() == pid
	c.Conn.Close()
	delete(r.clients, pid)
	delete(r.lastSeq, pid)
	r.order = slices.DeleteFunc(r.order, func(id PlayerID) bool { return id == pid })
	r.clientCount.Store(int64(len(r.clients)))
	r.log.Infow("client left", "player", pid, "clients", len(r.clients))

	if wasPilot {
		if next, ok := r.clients[r.pilot()]; ok {
			r.sendTo(next, pilotMessage{Type: msgPilot, Pilot: true})
		}
	}
}

func (r *Room) handleInput(in Input) {
	pid := in.PlayerID
	if _, ok := r.clients[pid]; !ok {
		return
	}
	if in.Seq > 0 {
		if in.Seq <= r.lastSeq[pid] {
			r.metrics.IncOldSeqIgnored()
			return
		}
		r.lastSeq[pid] = in.Seq
	}
	if in.Submit {
		r.submitScore(in)
		return
	}
	if pid != r.pilot() {
		r.metrics.IncSpectatorIgnored()
		return
	}
	if limit := int(r.maxInputsPerTick.Load()); limit > 0 && r.inputsThisTick[pid] >= limit {
		r.metrics.IncRateLimited()
		return
	}
	r.inputsThisTick[pid]++
	r.session.Submit(in.Command)
	r.metrics.IncAccepted()
}

// afterUpdate 处理状态切换：进入结束时通知，离开结束时允许再次提交
func (r *Room) afterUpdate() {
	st := r.session.State()
	if st == r.lastState {
		return
	}
	switch {
	case st == game.StateGameOver:
		final, _ := r.session.FinalStats()
		r.sendAll(gameOverMessage{Type: msgGameOver, Reason: final.Reason, Score: final.Score, Height: final.Height})
		r.publishStats()
	case r.lastState == game.StateGameOver:
		r.submitted = false
	}
	r.lastState = st
}

// submitScore 只提交会话自己的最终成绩，客户端只提供名字
func (r *Room) submitScore(in Input) {
	c := r.clients[in.PlayerID]
	final, over := r.session.FinalStats()
	switch {
	case !over:
		r.sendTo(c, noticeMessage{Type: msgNotice, Message: "game is not over"})
		return
	case r.submitted:
		r.sendTo(c, noticeMessage{Type: msgNotice, Message: "score already submitted"})
		return
	case r.store == nil:
		r.sendTo(c, noticeMessage{Type: msgNotice, Message: "leaderboard unavailable"})
		return
	}
	rec, err := scores.NewRecord(in.Name, final.Score, final.Height, time.Now())
	if err != nil {
		r.sendTo(c, noticeMessage{Type: msgNotice, Message: err.Error()})
		return
	}
	r.submitted = true
	go r.persist(in.PlayerID, rec)
}

// persist 在独立协程中写存储，结果经 noticeChan 回到 Tick 协程
func (r *Room) persist(pid PlayerID, rec scores.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n := notice{To: pid}
	if err := r.store.Submit(ctx, rec); err != nil {
		r.log.Warnw("score submit failed", "err", err, "player", pid)
		n.Msg = "Failed to save score"
	} else {
		r.metrics.IncScoresSubmitted()
		n.OK = true
		n.Msg = "score saved"
		if recs, err := r.store.Top(ctx, 0); err == nil {
			b := scores.Leaderboard(recs, scores.ByScore)
			n.Board = &b
		}
	}
	select {
	case r.noticeChan <- n:
	case <-r.quit:
	}
}

func (r *Room) deliver(n notice) {
	if !n.OK {
		// 失败可重试
		r.submitted = false
	}
	c, ok := r.clients[n.To]
	if !ok {
		return
	}
	r.sendTo(c, noticeMessage{Type: msgNotice, OK: n.OK, Message: n.Msg})
	if n.Board != nil {
		r.sendTo(c, leaderboardMessage{
			Type:   msgLeaderboard,
			SortBy: string(n.Board.SortBy),
			Left:   n.Board.Left,
			Right:  n.Board.Right,
		})
	}
}

// Broadcast 将视口内的会话快照广播给所有客户端（每种编码只编码一次）
func (r *Room) Broadcast(seq uint64) {
	if len(r.clients) == 0 {
		return
	}
	r.sendAll(stateMessage{Type: msgState, Seq: seq, Snapshot: r.session.SnapshotAround(viewRadius)})
	r.metrics.IncBroadcasts()
	if seq%60 == 0 {
		r.publishStats()
	}
}

func (r *Room) sendAll(v any) {
	cache := make(map[string][]byte, 2)
	for _, c := range r.clients {
		name := c.Codec.Name()
		b, ok := cache[name]
		if !ok {
			var err error
			if b, err = c.Codec.Marshal(v); err != nil {
				r.log.Errorw("encode failed", "codec", name, "err", err)
				continue
			}
			cache[name] = b
		}
		c.Conn.Enqueue(b)
	}
}

func (r *Room) sendTo(c *Client, v any) {
	if c == nil {
		return
	}
	b, err := c.Codec.Marshal(v)
	if err != nil {
		r.log.Errorw("encode failed", "codec", c.Codec.Name(), "err", err)
		return
	}
	c.Conn.Enqueue(b)
}

func (r *Room) publishStats() {
	st := r.session.Stats()
	r.stats.Store(&st)
}

func (r *Room) closeClients() {
	for pid, c := range r.clients {
		c.Conn.Close()
		delete(r.clients, pid)
	}
	r.order = nil
	r.clientCount.Store(0)
}

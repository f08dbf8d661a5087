// Package terminal 本地终端前端：tcell 绘制，单人游玩，结束后录入排行榜
package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"bounceball/game"
	"bounceball/scores"
)

// 单次帧间隔上限，避免窗口挂起后一次性推进过多
const maxFrameDelta = 100 * time.Millisecond

// 提交/读取排行榜的超时
const storeTimeout = 5 * time.Second

type screenMode uint8

const (
	modePlay screenMode = iota
	modeNameEntry
	modeBoard
)

// storeResult 后台排行榜请求的结果，回到主循环处理
type storeResult struct {
	records   []scores.Record
	err       error
	submitted bool
}

// App 终端游戏：持有会话并在主循环内独占推进
type App struct {
	screen  tcell.Screen
	session *game.Session
	store   scores.Store
	log     *zap.SugaredLogger

	ctl     *controls
	mode    screenMode
	entry   scores.NameEntry
	records []scores.Record
	sortBy  scores.SortKey
	notice  string
	busy    bool
	results chan storeResult
	done    chan struct{} // Run 返回时关闭

	frame     time.Duration
	lastFrame time.Time
	prevState game.State
}

// NewApp store 为 nil 时跳过排行榜
func NewApp(screen tcell.Screen, session *game.Session, store scores.Store, log *zap.SugaredLogger) *App {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	rate := session.Tuning().TickRate
	if rate <= 0 {
		rate = 60
	}
	return &App{
		screen:    screen,
		session:   session,
		store:     store,
		log:       log,
		ctl:       newControls(),
		sortBy:    scores.ByScore,
		results:   make(chan storeResult, 1),
		done:      make(chan struct{}),
		frame:     time.Second / time.Duration(rate),
		prevState: session.State(),
	}
}

// Run 主循环：输入协程 + 固定帧率 ticker，ctx 取消或按 Q 退出
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	defer close(a.done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Fini 之后返回 nil
				return
			}
			select {
			case events <- ev:
			case <-a.done:
				return
			}
		}
	}()

	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()
	a.lastFrame = time.Now()
	a.Draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.HandleEvent(ev, time.Now()) {
				return nil
			}
		case res := <-a.results:
			a.finishStore(res)
			a.Draw()
		case now := <-ticker.C:
			a.Tick(now)
		}
	}
}

// Tick 推进一帧并重绘
func (a *App) Tick(now time.Time) {
	dt := a.frame
	if !a.lastFrame.IsZero() {
		dt = now.Sub(a.lastFrame)
	}
	a.lastFrame = now
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}

	if cmd, ok := a.ctl.frame(now); ok {
		a.session.Submit(cmd)
	}
	a.session.Update(dt)
	for _, cmd := range a.ctl.settle(a.session.Player()) {
		a.session.Submit(cmd)
	}

	state := a.session.State()
	if state != a.prevState {
		a.onState(a.prevState, state)
		a.prevState = state
	}
	a.Draw()
}

func (a *App) onState(from, to game.State) {
	switch {
	case to == game.StateGameOver:
		a.ctl.reset()
		a.notice = ""
		final, _ := a.session.FinalStats()
		a.log.Infow("game over", "reason", final.Reason, "score", final.Score, "height", final.Height)
		if a.store == nil {
			a.mode = modeBoard
			return
		}
		a.entry.Reset()
		a.mode = modeNameEntry
	case from == game.StateGameOver:
		a.mode = modePlay
		a.notice = ""
	}
}

// HandleEvent 返回 false 表示退出
func (a *App) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.Draw()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		switch a.mode {
		case modeNameEntry:
			a.nameKey(ev)
		case modeBoard:
			return a.boardKey(ev)
		default:
			return a.playKey(ev, now)
		}
	}
	return true
}

func (a *App) playKey(ev *tcell.EventKey, now time.Time) bool {
	switch act := keyAction(ev); act {
	case actQuit:
		return false
	case actPause:
		a.session.Submit(game.Press(game.CmdPauseToggle))
	case actReset:
		a.ctl.reset()
		a.session.Submit(game.Press(game.CmdReset))
	default:
		for _, cmd := range a.ctl.press(act, now) {
			a.session.Submit(cmd)
		}
	}
	return true
}

func (a *App) nameKey(ev *tcell.EventKey) {
	if a.busy {
		return
	}
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			if name, ok := a.entry.PressSelected(); ok {
				a.submit(name)
			}
			return
		}
		a.entry.Type(ev.Rune())
	case tcell.KeyLeft:
		a.entry.Move(-1, 0)
	case tcell.KeyRight:
		a.entry.Move(1, 0)
	case tcell.KeyUp:
		a.entry.Move(0, -1)
	case tcell.KeyDown:
		a.entry.Move(0, 1)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.entry.Press(scores.KeyDelete)
	case tcell.KeyEnter:
		if name, ok := a.entry.Press(scores.KeyConfirm); ok {
			a.submit(name)
		}
	case tcell.KeyEscape:
		// 不提交，直接看榜
		a.mode = modeBoard
		a.load()
	}
}

func (a *App) boardKey(ev *tcell.EventKey) bool {
	switch keyAction(ev) {
	case actQuit:
		return false
	case actToggleSort:
		a.sortBy = a.sortBy.Toggle()
	case actReset:
		a.ctl.reset()
		a.session.Submit(game.Press(game.CmdReset))
	}
	return true
}

// submit 后台写入成绩并拉取最新榜单
func (a *App) submit(name string) {
	final, ok := a.session.FinalStats()
	if !ok {
		return
	}
	rec, err := scores.NewRecord(name, final.Score, final.Height, time.Now())
	if err != nil {
		a.notice = err.Error()
		return
	}
	a.busy = true
	a.notice = "saving..."
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := a.store.Submit(ctx, rec); err != nil {
			a.deliver(storeResult{err: err, submitted: true})
			return
		}
		recs, err := a.store.Top(ctx, 0)
		a.deliver(storeResult{records: recs, err: err, submitted: true})
	}()
}

func (a *App) load() {
	if a.store == nil {
		return
	}
	a.busy = true
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		recs, err := a.store.Top(ctx, 0)
		a.deliver(storeResult{records: recs, err: err})
	}()
}

// deliver 把后台结果交回主循环；主循环已退出则丢弃
func (a *App) deliver(res storeResult) {
	select {
	case a.results <- res:
	case <-a.done:
	}
}

func (a *App) finishStore(res storeResult) {
	a.busy = false
	if res.err != nil {
		a.log.Warnw("leaderboard request failed", "err", res.err, "submit", res.submitted)
		if res.submitted {
			// 留在输入界面，可再次确认重试
			a.notice = "failed to save score, press Enter to retry"
			return
		}
		a.notice = "leaderboard unavailable"
		return
	}
	a.records = res.records
	a.notice = ""
	a.mode = modeBoard
}

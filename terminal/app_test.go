package terminal

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"bounceball/game"
	"bounceball/scores"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s
}

func newTestApp(t *testing.T, tn game.Tuning, store scores.Store) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := newSimScreen(t)
	sess, err := game.NewSession(tn, game.WithSeed(7))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return NewApp(screen, sess, store, nil), screen
}

// ticks 以固定帧间隔推进，返回最后一帧时间
func ticks(a *App, from time.Time, n int) time.Time {
	now := from
	for i := 0; i < n; i++ {
		now = now.Add(a.frame)
		a.Tick(now)
	}
	return now
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func rowText(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestKeyActionMapping(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want action
	}{
		{key(tcell.KeyLeft), actLeft},
		{runeKey('D'), actRight},
		{runeKey('w'), actSwipeUp},
		{key(tcell.KeyDown), actSwipeDown},
		{runeKey(' '), actJump},
		{runeKey('z'), actChargeButton},
		{runeKey('x'), actDoubleJump},
		{key(tcell.KeyEscape), actPause},
		{runeKey('r'), actReset},
		{runeKey('q'), actQuit},
		{key(tcell.KeyTab), actToggleSort},
		{runeKey('?'), actNone},
	}
	for _, c := range cases {
		if got := keyAction(c.ev); got != c.want {
			t.Fatalf("key %v: got %d want %d", c.ev.Name(), got, c.want)
		}
	}
}

func TestControlsHoldExpires(t *testing.T) {
	c := newControls()
	t0 := time.Unix(0, 0)
	c.press(actLeft, t0)
	cmd, ok := c.frame(t0)
	if !ok || cmd.X != -1 {
		t.Fatalf("expected left direction, got %+v ok=%v", cmd, ok)
	}
	if _, ok := c.frame(t0.Add(keyTimeout / 2)); ok {
		t.Fatalf("unchanged hold should not resend")
	}
	cmd, ok = c.frame(t0.Add(keyTimeout + time.Millisecond))
	if !ok || cmd.X != 0 {
		t.Fatalf("expected release after timeout, got %+v ok=%v", cmd, ok)
	}
}

func TestControlsSwipeIsOneShot(t *testing.T) {
	c := newControls()
	t0 := time.Unix(0, 0)
	c.press(actSwipeUp, t0)
	cmd, ok := c.frame(t0)
	if !ok || cmd.Y != -1 {
		t.Fatalf("expected swipe up, got %+v", cmd)
	}
	if _, ok := c.frame(t0); ok {
		t.Fatalf("swipe should be sent once")
	}
}

func TestSpaceChargesThenLaunches(t *testing.T) {
	a, _ := newTestApp(t, game.DefaultTuning(), nil)
	now := ticks(a, time.Unix(0, 0), 60)
	if a.session.Player().Mode() != game.ModeGrounded {
		t.Fatalf("expected grounded after settling, got %v", a.session.Player().Mode())
	}

	a.HandleEvent(runeKey(' '), now)
	now = ticks(a, now, 10)
	if !a.session.Player().Charging() {
		t.Fatalf("expected charging after space")
	}

	a.HandleEvent(runeKey(' '), now)
	ticks(a, now, 1)
	p := a.session.Player()
	if p.Charging() || p.Body.VY >= 0 {
		t.Fatalf("expected upward launch, charging=%v vy=%v", p.Charging(), p.Body.VY)
	}
}

func TestAirborneSpaceReleasesItself(t *testing.T) {
	a, _ := newTestApp(t, game.DefaultTuning(), nil)
	now := ticks(a, time.Unix(0, 0), 60)
	a.HandleEvent(runeKey('z'), now)
	now = ticks(a, now, 5)
	a.HandleEvent(runeKey('z'), now)
	now = ticks(a, now, 3)
	if a.session.Player().Mode() != game.ModeAirborne {
		t.Fatalf("expected airborne after button launch")
	}

	a.HandleEvent(runeKey(' '), now)
	ticks(a, now, 1)
	if a.session.Player().CanDoubleJump() {
		t.Fatalf("expected double jump consumed")
	}
	if a.ctl.jumpHeld {
		t.Fatalf("jump should auto release when no charge started")
	}
}

func TestPauseAndQuit(t *testing.T) {
	a, _ := newTestApp(t, game.DefaultTuning(), nil)
	now := time.Unix(0, 0)
	a.HandleEvent(key(tcell.KeyEscape), now)
	ticks(a, now, 1)
	if !a.session.Paused() {
		t.Fatalf("expected paused")
	}
	if a.HandleEvent(runeKey('q'), now) {
		t.Fatalf("q should quit while playing")
	}
	if a.HandleEvent(key(tcell.KeyCtrlC), now) {
		t.Fatalf("ctrl-c should quit")
	}
}

func TestDrawShowsHUD(t *testing.T) {
	a, screen := newTestApp(t, game.DefaultTuning(), nil)
	ticks(a, time.Unix(0, 0), 1)
	hud := rowText(screen, 0)
	if !strings.Contains(hud, "Score 0") || !strings.Contains(hud, "Time 2:00") {
		t.Fatalf("unexpected hud: %q", hud)
	}
	found := false
	for y := 1; y < 24 && !found; y++ {
		found = strings.ContainsRune(rowText(screen, y), 'O')
	}
	if !found {
		t.Fatalf("ball not drawn")
	}
}

func TestGameOverSubmitsName(t *testing.T) {
	tn := game.DefaultTuning()
	tn.TimeLimit = 1
	store := scores.NewFileStore(filepath.Join(t.TempDir(), "lb.json"))
	a, _ := newTestApp(t, tn, store)
	now := ticks(a, time.Unix(0, 0), 180)
	if a.mode != modeNameEntry {
		t.Fatalf("expected name entry after time up, mode=%d state=%v", a.mode, a.session.State())
	}

	for _, r := range "abq" {
		if !a.HandleEvent(runeKey(r), now) {
			t.Fatalf("letters must not quit during name entry")
		}
	}
	if a.entry.Value() != "ABQ" {
		t.Fatalf("name=%q", a.entry.Value())
	}
	a.HandleEvent(key(tcell.KeyEnter), now)
	if !a.busy {
		t.Fatalf("expected submission in flight")
	}
	a.finishStore(<-a.results)
	if a.mode != modeBoard || len(a.records) != 1 || a.records[0].Name != "ABQ" {
		t.Fatalf("expected board with one record, mode=%d records=%+v", a.mode, a.records)
	}

	recs, err := store.Top(context.Background(), 0)
	if err != nil || len(recs) != 1 {
		t.Fatalf("stored records=%v err=%v", recs, err)
	}

	a.HandleEvent(key(tcell.KeyTab), now)
	if a.sortBy != scores.ByHeight {
		t.Fatalf("tab should toggle sort")
	}
	a.HandleEvent(runeKey('r'), now)
	ticks(a, now, 1)
	if a.mode != modePlay || a.session.State() != game.StatePlaying {
		t.Fatalf("expected new run after reset, mode=%d state=%v", a.mode, a.session.State())
	}
}

type failingStore struct{}

func (failingStore) Submit(context.Context, scores.Record) error { return errors.New("disk full") }
func (failingStore) Top(context.Context, int) ([]scores.Record, error) {
	return nil, errors.New("disk full")
}

func TestSubmitFailureAllowsRetry(t *testing.T) {
	tn := game.DefaultTuning()
	tn.TimeLimit = 1
	a, _ := newTestApp(t, tn, failingStore{})
	now := ticks(a, time.Unix(0, 0), 180)
	a.HandleEvent(runeKey('a'), now)
	a.HandleEvent(key(tcell.KeyEnter), now)
	a.finishStore(<-a.results)
	if a.mode != modeNameEntry || a.busy || a.notice == "" {
		t.Fatalf("expected to stay on name entry with notice, mode=%d busy=%v notice=%q", a.mode, a.busy, a.notice)
	}
	a.HandleEvent(key(tcell.KeyEnter), now)
	if !a.busy {
		t.Fatalf("expected retry to start")
	}
	<-a.results
}

func TestNoStoreGoesStraightToBoard(t *testing.T) {
	tn := game.DefaultTuning()
	tn.TimeLimit = 1
	a, _ := newTestApp(t, tn, nil)
	ticks(a, time.Unix(0, 0), 180)
	if a.mode != modeBoard {
		t.Fatalf("expected board mode without store, got %d", a.mode)
	}
}

func TestStoreResultAfterRunReturnsIsDropped(t *testing.T) {
	a, _ := newTestApp(t, game.DefaultTuning(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	// 缓冲已满且主循环不再消费
	a.results <- storeResult{}
	done := make(chan struct{})
	go func() {
		a.deliver(storeResult{err: errors.New("late")})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("background store result blocked after Run returned")
	}
}

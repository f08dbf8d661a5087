package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"bounceball/game"
)

// 终端没有按键抬起事件：按键在 keyTimeout 内未重复即视为松开
const keyTimeout = 150 * time.Millisecond

// action 终端按键对应的控制意图
type action uint8

const (
	actNone action = iota
	actLeft
	actRight
	actSwipeUp
	actSwipeDown
	actJump
	actChargeButton
	actDoubleJump
	actPause
	actReset
	actQuit
	actConfirm
	actBackspace
	actToggleSort
)

// keyAction 按键映射；字母键不区分大小写
func keyAction(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyLeft:
		return actLeft
	case tcell.KeyRight:
		return actRight
	case tcell.KeyUp:
		return actSwipeUp
	case tcell.KeyDown:
		return actSwipeDown
	case tcell.KeyEscape:
		return actPause
	case tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyEnter:
		return actConfirm
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return actBackspace
	case tcell.KeyTab:
		return actToggleSort
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A':
			return actLeft
		case 'd', 'D':
			return actRight
		case 'w', 'W':
			return actSwipeUp
		case 's', 'S':
			return actSwipeDown
		case ' ':
			return actJump
		case 'z', 'Z':
			return actChargeButton
		case 'x', 'X':
			return actDoubleJump
		case 'p', 'P':
			return actPause
		case 'r', 'R':
			return actReset
		case 'q', 'Q':
			return actQuit
		}
	}
	return actNone
}

// controls 把离散按键事件转换为会话命令
type controls struct {
	keys map[action]time.Time

	dirX       float64
	jumpHeld   bool
	buttonHeld bool
	swipe      float64 // 本帧待发送的竖直方向
}

func newControls() *controls {
	return &controls{keys: make(map[action]time.Time)}
}

func (c *controls) reset() {
	clear(c.keys)
	c.dirX = 0
	c.jumpHeld = false
	c.buttonHeld = false
	c.swipe = 0
}

// press 处理一次游戏内按键，返回需要立即提交的命令
func (c *controls) press(a action, now time.Time) []game.Command {
	switch a {
	case actLeft, actRight:
		c.keys[a] = now
	case actSwipeUp:
		c.swipe = -1
	case actSwipeDown:
		c.swipe = 1
	case actJump:
		// 空格切换：第一次按下开始，再按一次松开
		c.jumpHeld = !c.jumpHeld
		if c.jumpHeld {
			return []game.Command{game.Press(game.CmdJumpPress)}
		}
		return []game.Command{game.Press(game.CmdJumpRelease)}
	case actChargeButton:
		c.buttonHeld = !c.buttonHeld
		if c.buttonHeld {
			return []game.Command{game.Press(game.CmdChargePress)}
		}
		return []game.Command{game.Press(game.CmdChargeRelease)}
	case actDoubleJump:
		return []game.Command{game.Press(game.CmdDoubleJumpPress), game.Press(game.CmdDoubleJumpRelease)}
	}
	return nil
}

func (c *controls) held(a action, now time.Time) bool {
	t, ok := c.keys[a]
	return ok && now.Sub(t) < keyTimeout
}

// frame 每帧调用：方向有变化或有滑动时返回一条方向命令
func (c *controls) frame(now time.Time) (game.Command, bool) {
	x := 0.0
	if c.held(actLeft, now) {
		x--
	}
	if c.held(actRight, now) {
		x++
	}
	if x == c.dirX && c.swipe == 0 {
		return game.Command{}, false
	}
	c.dirX = x
	cmd := game.Direction(x, c.swipe)
	c.swipe = 0
	return cmd, true
}

// settle 在 Update 之后调用：按下后没有进入蓄力（空中二段跳、被忽略）就自动松开
func (c *controls) settle(p *game.Player) []game.Command {
	if p.Charging() {
		return nil
	}
	var out []game.Command
	if c.jumpHeld {
		c.jumpHeld = false
		out = append(out, game.Press(game.CmdJumpRelease))
	}
	if c.buttonHeld {
		c.buttonHeld = false
		out = append(out, game.Press(game.CmdChargeRelease))
	}
	return out
}

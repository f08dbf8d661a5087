package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"bounceball/game"
	"bounceball/scores"
)

var (
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	stylePlatform = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleGround   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBall     = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
	styleArrow    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleEffect   = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleOverlay  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleSelected = styleOverlay.Reverse(true)
)

var orbColors = map[string]tcell.Color{
	game.LightPink.String(): tcell.ColorLightPink,
	game.Pink.String():      tcell.ColorPink,
	game.HotPink.String():   tcell.ColorHotPink,
	game.DeepPink.String():  tcell.ColorDeepPink,
	game.Magenta.String():   tcell.ColorFuchsia,
}

// camera 世界坐标到单元格：以玩家为中心，字符高约为宽的两倍
type camera struct {
	w, h    int
	perCol  float64
	perRow  float64
	centerY float64
}

func newCamera(w, h int, worldWidth, centerY float64) camera {
	if w < 1 {
		w = 1
	}
	perCol := worldWidth / float64(w)
	return camera{w: w, h: h, perCol: perCol, perRow: perCol * 2, centerY: centerY}
}

func (c camera) col(x float64) int { return int(math.Floor(x / c.perCol)) }

// 第 0 行留给 HUD
func (c camera) row(y float64) int {
	return 1 + (c.h-1)/2 + int(math.Floor((y-c.centerY)/c.perRow))
}

func (c camera) visible(col, row int) bool {
	return col >= 0 && col < c.w && row >= 1 && row < c.h
}

// Draw 绘制当前画面
func (a *App) Draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()
	snap := a.session.SnapshotAround(float64(h) * a.session.Tuning().WorldWidth / float64(max(w, 1)))
	cam := newCamera(w, h, a.session.Tuning().WorldWidth, snap.Player.Y)

	drawWorld(s, cam, snap)
	drawHUD(s, w, snap)

	switch {
	case snap.Paused:
		drawBox(s, w, h, []string{"PAUSED", "", "Esc resume   R restart   Q quit"})
	case a.mode == modeNameEntry:
		a.drawNameEntry(s, w, h, snap)
	case a.mode == modeBoard:
		a.drawBoard(s, w, h, snap)
	}
	s.Show()
}

func drawWorld(s tcell.Screen, cam camera, snap game.Snapshot) {
	for _, p := range snap.Platforms {
		ch, st := '=', stylePlatform
		if p.Ground {
			ch, st = '#', styleGround
		}
		c0, c1 := cam.col(p.X), cam.col(p.X+p.W)
		if c1 <= c0 {
			c1 = c0 + 1
		}
		r0, r1 := cam.row(p.Y), cam.row(p.Y+p.H)
		if r1 < r0 {
			r1 = r0
		}
		for r := r0; r <= r1; r++ {
			for c := c0; c < c1; c++ {
				if cam.visible(c, r) {
					s.SetContent(c, r, ch, nil, st)
				}
			}
		}
	}

	for _, o := range snap.Orbs {
		c, r := cam.col(o.X), cam.row(o.Y)
		if cam.visible(c, r) {
			s.SetContent(c, r, '●', nil, tcell.StyleDefault.Foreground(orbColors[o.Color]))
		}
	}

	pl := snap.Player
	if cv := pl.Charge; cv.Level > 0 || pl.Mode == game.ModeCharging.String() {
		// 箭头：沿瞄准角画点，末端是箭头
		const steps = 5
		for i := 1; i <= steps; i++ {
			d := cv.ArrowLength * float64(i) / steps
			c := cam.col(pl.X + math.Cos(cv.Aim)*d)
			r := cam.row(pl.Y + math.Sin(cv.Aim)*d)
			ch := '·'
			if i == steps {
				ch = '*'
			}
			if cam.visible(c, r) {
				s.SetContent(c, r, ch, nil, styleArrow)
			}
		}
	}

	for _, e := range snap.Effects {
		switch e.Kind {
		case game.EffectPoints:
			text, _, _ := strings.Cut(e.Text, "\n")
			// 飘字随进度上移
			y := e.Y - e.Progress()*50
			drawText(s, cam.col(e.X), cam.row(y)-1, styleEffect, text)
		case game.EffectDoubleJump:
			c, r := cam.col(e.X), cam.row(e.Y)+1
			if cam.visible(c, r) {
				s.SetContent(c, r, '~', nil, styleEffect)
			}
		}
	}

	c, r := cam.col(pl.X), cam.row(pl.Y)
	if cam.visible(c, r) {
		ch := 'O'
		if pl.Mode == game.ModeCharging.String() {
			ch = '@'
		}
		s.SetContent(c, r, ch, nil, styleBall)
	}
}

func drawHUD(s tcell.Screen, w int, snap game.Snapshot) {
	left := fmt.Sprintf(" Score %d  Height %dm  Time %s", snap.Score, snap.Height, clock(snap.TimeRemaining))
	if snap.Player.CanDoubleJump {
		left += "  [2J]"
	}
	if snap.ChargeLevel > 0 {
		n := int(math.Round(snap.ChargeLevel * 10))
		left += "  [" + strings.Repeat("#", n) + strings.Repeat("-", 10-n) + "]"
	}
	drawText(s, 0, 0, styleHUD, left)
	right := fmt.Sprintf("%d fps ", snap.FPS)
	drawText(s, w-len(right), 0, styleHUD, right)

	for _, e := range snap.Effects {
		if e.Kind == game.EffectTimeBonus {
			drawText(s, (w-len(e.Text))/2, 1, styleEffect, e.Text)
		}
	}
}

// clock 秒数格式化为 M:SS
func clock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

func drawText(s tcell.Screen, x, y int, st tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, st)
	}
}

// drawBox 居中的多行面板
func drawBox(s tcell.Screen, w, h int, lines []string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width += 4
	height := len(lines) + 2
	x0, y0 := (w-width)/2, (h-height)/2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s.SetContent(x0+x, y0+y, ' ', nil, styleOverlay)
		}
	}
	for i, l := range lines {
		drawText(s, x0+(width-len([]rune(l)))/2, y0+1+i, styleOverlay, l)
	}
}

func gameOverLines(snap game.Snapshot) []string {
	return []string{
		snap.Message,
		"",
		fmt.Sprintf("Score %d   Height %dm", snap.Score, snap.Height),
		"",
	}
}

func (a *App) drawNameEntry(s tcell.Screen, w, h int, snap game.Snapshot) {
	name := a.entry.Value()
	lines := gameOverLines(snap)
	lines = append(lines, "NAME  "+name+strings.Repeat("_", scores.MaxNameLen-len(name)), "")
	for _, row := range scores.KeyboardRows {
		lines = append(lines, " "+strings.Join(row, " ")+" ")
	}
	lines = append(lines, "", "type or arrows+Space   Enter save   Esc skip")
	if a.notice != "" {
		lines = append(lines, a.notice)
	}
	drawBox(s, w, h, lines)

	// 光标键反显：键盘行在面板内的位置与 drawBox 的排版一致
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width += 4
	x0, y0 := (w-width)/2, (h-len(lines)-2)/2
	row, col := a.entry.Cursor()
	line := lines[len(gameOverLines(snap))+2+row]
	lx := x0 + (width-len([]rune(line)))/2
	key := scores.KeyboardRows[row][col]
	s.SetContent(lx+1+col*2, y0+1+len(gameOverLines(snap))+2+row, []rune(key)[0], nil, styleSelected)
}

func (a *App) drawBoard(s tcell.Screen, w, h int, snap game.Snapshot) {
	lines := gameOverLines(snap)
	board := scores.Leaderboard(a.records, a.sortBy)
	lines = append(lines, fmt.Sprintf("TOP %d  by %s", board.Len(), a.sortBy))
	for i := 0; i < len(board.Left); i++ {
		row := boardEntry(i+1, board.Left[i])
		if i < len(board.Right) {
			row += "   " + boardEntry(i+6, board.Right[i])
		}
		lines = append(lines, row)
	}
	if board.Len() == 0 {
		lines = append(lines, "no scores yet")
	}
	lines = append(lines, "", "Tab sort   R play again   Q quit")
	if a.notice != "" {
		lines = append(lines, a.notice)
	}
	drawBox(s, w, h, lines)
}

func boardEntry(rank int, r scores.Record) string {
	return fmt.Sprintf("%2d. %-5s %6d %5dm", rank, r.Name, r.Score, r.Height)
}

package scores

// 屏幕键盘上的特殊键
const (
	KeyDelete  = "⌫"
	KeyConfirm = "✓"
)

// KeyboardRows 屏幕字母键盘布局
var KeyboardRows = [][]string{
	{"A", "B", "C", "D", "E", "F", "G"},
	{"H", "I", "J", "K", "L", "M", "N"},
	{"O", "P", "Q", "R", "S", "T", "U"},
	{"V", "W", "X", "Y", "Z", KeyDelete, KeyConfirm},
}

// NameEntry 游戏结束后的名字输入，带一个可在键盘上移动的光标
type NameEntry struct {
	value    []byte
	row, col int
}

// Value 当前输入
func (e *NameEntry) Value() string { return string(e.value) }

// Reset 清空
func (e *NameEntry) Reset() {
	e.value = e.value[:0]
	e.row, e.col = 0, 0
}

// Press 按下一个键盘键；确认且非空时返回 (name, true)
func (e *NameEntry) Press(key string) (string, bool) {
	switch key {
	case KeyDelete:
		if n := len(e.value); n > 0 {
			e.value = e.value[:n-1]
		}
	case KeyConfirm:
		if len(e.value) > 0 {
			return string(e.value), true
		}
	default:
		if len(key) == 1 && key[0] >= 'A' && key[0] <= 'Z' && len(e.value) < MaxNameLen {
			e.value = append(e.value, key[0])
		}
	}
	return "", false
}

// Type 物理键盘输入，小写自动转大写，其余字符忽略
func (e *NameEntry) Type(r rune) {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r >= 'A' && r <= 'Z' {
		e.Press(string(r))
	}
}

// Move 移动光标，越界时回绕
func (e *NameEntry) Move(dx, dy int) {
	rows := len(KeyboardRows)
	e.row = ((e.row+dy)%rows + rows) % rows
	cols := len(KeyboardRows[e.row])
	e.col = ((e.col+dx)%cols + cols) % cols
}

// Cursor 光标位置
func (e *NameEntry) Cursor() (row, col int) { return e.row, e.col }

// Selected 光标所在键
func (e *NameEntry) Selected() string { return KeyboardRows[e.row][e.col] }

// PressSelected 按下光标所在键
func (e *NameEntry) PressSelected() (string, bool) { return e.Press(e.Selected()) }

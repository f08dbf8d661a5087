package game

// CommandKind 输入命令类型
type CommandKind uint8

const (
	CmdDirection CommandKind = iota + 1
	CmdJumpPress
	CmdJumpRelease
	CmdChargePress
	CmdChargeRelease
	CmdDoubleJumpPress
	CmdDoubleJumpRelease
	CmdPauseToggle
	CmdReset
)

var commandNames = map[CommandKind]string{
	CmdDirection:         "direction",
	CmdJumpPress:         "jump_press",
	CmdJumpRelease:       "jump_release",
	CmdChargePress:       "charge_press",
	CmdChargeRelease:     "charge_release",
	CmdDoubleJumpPress:   "double_jump_press",
	CmdDoubleJumpRelease: "double_jump_release",
	CmdPauseToggle:       "pause",
	CmdReset:             "reset",
}

func (k CommandKind) String() string {
	if s, ok := commandNames[k]; ok {
		return s
	}
	return "unknown"
}

// Command 控制层意图；在下一次 Update 开始时统一消费
type Command struct {
	Kind CommandKind
	X, Y float64 // 仅 CmdDirection 使用，范围 [-1, 1]
}

// Direction 方向命令
func Direction(x, y float64) Command {
	return Command{Kind: CmdDirection, X: clamp(x, -1, 1), Y: clamp(y, -1, 1)}
}

// Press 便捷构造无参数命令
func Press(kind CommandKind) Command {
	return Command{Kind: kind}
}

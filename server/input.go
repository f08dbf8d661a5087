package server

import (
	"errors"
	"fmt"
	"strings"

	"bounceball/game"
)

// ErrUnknownInput 无法识别的入站消息
var ErrUnknownInput = errors.New("unknown input")

// Input 客户端输入（意图），由服务端在 Tick 开始时统一交给会话
type Input struct {
	PlayerID PlayerID
	Command  game.Command
	Seq      int64 // 客户端本地序列号，用于去重

	Submit bool // 提交成绩而非控制命令
	Name   string
}

// InputMessage 入站消息（文本 JSON 或二进制 msgpack，字段名相同）
// 示例：
//
//	{"type":"move","x":-1,"y":0}
//	{"type":"move","command":"left"}
//	{"type":"jump","pressed":true}
//	{"type":"charge","pressed":false}
//	{"type":"submit","name":"ACE"}
type InputMessage struct {
	Type    string  `json:"type"`
	Command string  `json:"command,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Pressed bool    `json:"pressed,omitempty"`
	Name    string  `json:"name,omitempty"`
	Seq     int64   `json:"seq,omitempty"`
}

// ToInput 转换为房间输入
func (m InputMessage) ToInput(pid PlayerID) (Input, error) {
	in := Input{PlayerID: pid, Seq: m.Seq}
	switch strings.ToLower(m.Type) {
	case "move":
		x, y := m.X, m.Y
		switch strings.ToLower(m.Command) {
		case "":
		case "up":
			x, y = 0, -1
		case "down":
			x, y = 0, 1
		case "left":
			x, y = -1, 0
		case "right":
			x, y = 1, 0
		case "stop", "none":
			x, y = 0, 0
		default:
			return Input{}, fmt.Errorf("%w: move command %q", ErrUnknownInput, m.Command)
		}
		in.Command = game.Direction(x, y)
	case "jump":
		in.Command = game.Press(pick(m.Pressed, game.CmdJumpPress, game.CmdJumpRelease))
	case "charge", "a":
		in.Command = game.Press(pick(m.Pressed, game.CmdChargePress, game.CmdChargeRelease))
	case "double", "b":
		in.Command = game.Press(pick(m.Pressed, game.CmdDoubleJumpPress, game.CmdDoubleJumpRelease))
	case "pause":
		in.Command = game.Press(game.CmdPauseToggle)
	case "reset":
		in.Command = game.Press(game.CmdReset)
	case "submit":
		in.Submit = true
		in.Name = strings.ToUpper(strings.TrimSpace(m.Name))
	default:
		return Input{}, fmt.Errorf("%w: type %q", ErrUnknownInput, m.Type)
	}
	return in, nil
}

func pick(pressed bool, down, up game.CommandKind) game.CommandKind {
	if pressed {
		return down
	}
	return up
}

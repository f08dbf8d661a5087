package server

import (
	"bounceball/game"
	"bounceball/scores"
)

// 出站消息类型
const (
	msgWelcome     = "welcome"
	msgState       = "state"
	msgPilot       = "pilot"
	msgGameOver    = "gameover"
	msgNotice      = "notice"
	msgLeaderboard = "leaderboard"
)

type welcomeMessage struct {
	Type   string `json:"type"`
	Room   string `json:"room"`
	Player string `json:"player"`
	Pilot  bool   `json:"pilot"`
	Seed   int64  `json:"seed"`
}

type stateMessage struct {
	Type     string        `json:"type"`
	Seq      uint64        `json:"seq"`
	Snapshot game.Snapshot `json:"snapshot"`
}

type pilotMessage struct {
	Type  string `json:"type"`
	Pilot bool   `json:"pilot"`
}

type gameOverMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Score  int    `json:"score"`
	Height int    `json:"height"`
}

type noticeMessage struct {
	Type    string `json:"type"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type leaderboardMessage struct {
	Type   string          `json:"type"`
	SortBy string          `json:"sortBy"`
	Left   []scores.Record `json:"left"`
	Right  []scores.Record `json:"right"`
}

// notice 异步存储结果，回到 Tick 协程后投递
type notice struct {
	To    PlayerID
	OK    bool
	Msg   string
	Board *scores.Board
}
